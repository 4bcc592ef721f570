package token

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/models"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type Service struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

func (s *Service) SignAccess(userID uint, role string) (string, time.Time, error) {
	exp := time.Now().Add(AccessTTL)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return tok, exp, nil
}

// SignRefresh issues a refresh token and persists it so it can be revoked.
func (s *Service) SignRefresh(userID uint, role string) (string, time.Time, error) {
	exp := time.Now().Add(RefreshTTL)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"typ":  "refresh",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.RefreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}

	record := models.RefreshToken{
		Token:     tok,
		UserID:    userID,
		Role:      role,
		ExpiresAt: exp,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return "", time.Time{}, fmt.Errorf("save refresh token: %w", err)
	}
	return tok, exp, nil
}

// Rotate exchanges a valid refresh token for a fresh access/refresh pair,
// revoking the old refresh token.
func (s *Service) Rotate(raw string) (string, string, error) {
	claims, err := s.validateRefresh(raw)
	if err != nil {
		return "", "", err
	}

	userID := uint(claims["sub"].(float64))
	role, _ := claims["role"].(string)

	newAccess, _, err := s.SignAccess(userID, role)
	if err != nil {
		return "", "", err
	}
	newRefresh, _, err := s.SignRefresh(userID, role)
	if err != nil {
		return "", "", err
	}
	if err := s.Revoke(raw); err != nil {
		return "", "", err
	}

	return newAccess, newRefresh, nil
}

func (s *Service) Revoke(raw string) error {
	if err := s.DB.Model(&models.RefreshToken{}).
		Where("token = ?", raw).
		Update("revoked", true).Error; err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *Service) validateRefresh(raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.RefreshSecret, nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("invalid refresh token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "refresh" {
		return nil, fmt.Errorf("invalid refresh token claims")
	}

	var record models.RefreshToken
	if err := s.DB.Where("token = ?", raw).First(&record).Error; err != nil {
		return nil, fmt.Errorf("unknown refresh token")
	}
	if record.Revoked || time.Now().After(record.ExpiresAt) {
		return nil, fmt.Errorf("refresh token expired or revoked")
	}

	return claims, nil
}

func (s *Service) parseAccess(raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid access token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid access token claims")
	}
	return claims, nil
}

// RequireUser authenticates the request from the access token cookie,
// transparently rotating through the refresh token when the access token
// has expired.
func (s *Service) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if asCookie, err := c.Cookie("accessToken"); err == nil {
			claims, perr := s.parseAccess(asCookie.Value)
			if perr == nil {
				setUserContext(c, claims)
				return next(c)
			}
			if !errors.Is(perr, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
		}

		rfCookie, err := c.Cookie("refreshToken")
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}
		newAccess, newRefresh, err := s.Rotate(rfCookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token: "+err.Error())
		}

		c.SetCookie(NewCookie("accessToken", newAccess, time.Now().Add(AccessTTL)))
		c.SetCookie(NewCookie("refreshToken", newRefresh, time.Now().Add(RefreshTTL)))

		claims, err := s.parseAccess(newAccess)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		setUserContext(c, claims)
		return next(c)
	}
}

// RequireAdmin is RequireUser plus a role check.
func (s *Service) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return s.RequireUser(func(c echo.Context) error {
		if role, _ := c.Get("role").(string); role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	})
}

func NewCookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(float64); ok {
		c.Set("userID", uint(sub))
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
}
