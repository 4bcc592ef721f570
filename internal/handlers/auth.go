package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/hash"
	"github.com/Skotchmaster/tea_shop/internal/models"
	"github.com/Skotchmaster/tea_shop/internal/service/token"
)

type AuthHandler struct {
	DB     *gorm.DB
	Tokens *token.Service
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	var existing models.User
	err := h.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	accessToken, accessExp, err := h.Tokens.SignAccess(user.ID, user.Role)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	refreshToken, refreshExp, err := h.Tokens.SignRefresh(user.ID, user.Role)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	c.SetCookie(token.NewCookie("accessToken", accessToken, accessExp))
	c.SetCookie(token.NewCookie("refreshToken", refreshToken, refreshExp))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"is_admin":      user.Role == "admin",
	})
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	if rfCookie, err := c.Cookie("refreshToken"); err == nil {
		if err := h.Tokens.Revoke(rfCookie.Value); err != nil {
			c.Logger().Errorf("revoke error: %v", err)
		}
	}

	expired := time.Unix(0, 0)
	c.SetCookie(token.NewCookie("accessToken", "", expired))
	c.SetCookie(token.NewCookie("refreshToken", "", expired))

	return c.JSON(http.StatusOK, echo.Map{"status": "logged out"})
}
