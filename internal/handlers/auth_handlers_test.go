package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/tea_shop/internal/models"
	"github.com/Skotchmaster/tea_shop/internal/service/token"
)

func (env *testEnv) register(username, password string) {
	env.T.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]any{
		"username": username,
		"password": password,
	})
	require.NoError(env.T, env.Auth.Register(c))
	require.Equal(env.T, http.StatusOK, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register("ivan", "secret123")

	var user models.User
	require.NoError(t, env.DB.Where("username = ?", "ivan").First(&user).Error)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "secret123", user.PasswordHash)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]any{
		"username": "ivan",
		"password": "secret123",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["access_token"])
	require.NotEmpty(t, resp["refresh_token"])
	require.Equal(t, false, resp["is_admin"])

	cookieNames := make(map[string]bool)
	for _, ck := range rec.Result().Cookies() {
		cookieNames[ck.Name] = true
	}
	require.True(t, cookieNames["accessToken"])
	require.True(t, cookieNames["refreshToken"])
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.register("ivan", "secret123")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]any{
		"username": "ivan",
		"password": "another",
	})
	err := env.Auth.Register(c)
	if err != nil {
		env.E.HTTPErrorHandler(err, c)
	}
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register("ivan", "secret123")

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]any{
		"username": "ivan",
		"password": "wrong",
	})
	err := env.Auth.Login(c)
	if err != nil {
		env.E.HTTPErrorHandler(err, c)
	}
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]any{
		"username": "nobody",
		"password": "whatever",
	})
	err := env.Auth.Login(c)
	if err != nil {
		env.E.HTTPErrorHandler(err, c)
	}
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	// plain user is rejected
	userAccess, userExp, err := env.Tokens.SignAccess(1, "user")
	require.NoError(t, err)
	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/categories/1", nil,
		token.NewCookie("accessToken", userAccess, userExp))
	herr := env.Tokens.RequireAdmin(ok)(c)
	if herr != nil {
		env.E.HTTPErrorHandler(herr, c)
	}
	require.Equal(t, http.StatusForbidden, rec.Code)

	// admin passes
	adminAccess, adminExp, err := env.Tokens.SignAccess(2, "admin")
	require.NoError(t, err)
	rec, c = env.doJSONRequest(http.MethodDelete, "/api/v1/categories/1", nil,
		token.NewCookie("accessToken", adminAccess, adminExp))
	require.NoError(t, env.Tokens.RequireAdmin(ok)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// no cookies at all
	rec, c = env.doJSONRequest(http.MethodDelete, "/api/v1/categories/1", nil)
	herr = env.Tokens.RequireAdmin(ok)(c)
	if herr != nil {
		env.E.HTTPErrorHandler(herr, c)
	}
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogOutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	env.register("ivan", "secret123")

	var user models.User
	require.NoError(t, env.DB.Where("username = ?", "ivan").First(&user).Error)

	refresh, refreshExp, err := env.Tokens.SignRefresh(user.ID, user.Role)
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/logout", nil,
		token.NewCookie("refreshToken", refresh, refreshExp))
	require.NoError(t, env.Auth.LogOut(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var record models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", refresh).First(&record).Error)
	require.True(t, record.Revoked)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "accessToken" || ck.Name == "refreshToken" {
			require.Empty(t, ck.Value)
			require.True(t, ck.Expires.Before(time.Now()))
		}
	}
}
