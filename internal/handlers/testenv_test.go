package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/db"
	"github.com/Skotchmaster/tea_shop/internal/models"
	"github.com/Skotchmaster/tea_shop/internal/service/token"
)

type testEnv struct {
	T          *testing.T
	E          *echo.Echo
	DB         *gorm.DB
	Categories *CategoryHandler
	Products   *ProductHandler
	Customers  *CustomerHandler
	Orders     *OrderHandler
	Auth       *AuthHandler
	Export     *ExportHandler
	Tokens     *token.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	tokens := &token.Service{
		DB:            gdb,
		JWTSecret:     []byte("test_jwt_secret"),
		RefreshSecret: []byte("test_refresh_secret"),
	}

	return &testEnv{
		T:          t,
		E:          echo.New(),
		DB:         gdb,
		Categories: &CategoryHandler{DB: gdb},
		Products:   &ProductHandler{DB: gdb},
		Customers:  &CustomerHandler{DB: gdb},
		Orders:     &OrderHandler{DB: gdb},
		Auth:       &AuthHandler{DB: gdb, Tokens: tokens},
		Export:     &ExportHandler{DB: gdb},
		Tokens:     tokens,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createCategory(name string) models.TeaCategory {
	env.T.Helper()
	category := models.TeaCategory{Name: name}
	require.NoError(env.T, env.DB.Create(&category).Error)
	return category
}

func (env *testEnv) createProduct(name string, categoryID uint, price float64, stockCount uint) models.TeaProduct {
	env.T.Helper()
	product := models.TeaProduct{
		Name:       name,
		CategoryID: categoryID,
		Price:      price,
		Stock:      stockCount,
	}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return product
}

func (env *testEnv) createCustomer(name, email string) models.Customer {
	env.T.Helper()
	customer := models.Customer{Name: name, Email: email}
	require.NoError(env.T, env.DB.Create(&customer).Error)
	return customer
}
