package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

// validatePrice enforces a non-negative price with at most 2 fractional
// digits, the precision of the decimal(10,2) column.
func validatePrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	cents := price * 100
	if math.Abs(cents-math.Round(cents)) > 1e-6 {
		return fmt.Errorf("price must have at most 2 decimal places")
	}
	return nil
}

type pageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

func newPageMeta(page, offset, limit int, total int64) pageMeta {
	return pageMeta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}

func pagedResponse(c echo.Context, items interface{}, meta pageMeta) error {
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": meta,
	})
}
