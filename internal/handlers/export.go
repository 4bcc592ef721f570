package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/export"
)

type ExportHandler struct {
	DB *gorm.DB
}

func (h *ExportHandler) CategoriesCSV(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="categories.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return export.Categories(h.DB, c.Response())
}

func (h *ExportHandler) ProductsCSV(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return export.Products(h.DB, c.Response())
}
