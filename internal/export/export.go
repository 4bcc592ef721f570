// Package export produces the admin CSV exports: filtered record sets with
// computed columns appended to the model fields.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/models"
)

const taxRate = 1.2

// Categories writes all categories whose name contains "green" as CSV with
// a computed custom description column.
func Categories(db *gorm.DB, w io.Writer) error {
	var categories []models.TeaCategory
	if err := db.Where("LOWER(name) LIKE ?", "%green%").
		Order("id ASC").Find(&categories).Error; err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "description", "created_at", "custom_field"}); err != nil {
		return err
	}
	for _, cat := range categories {
		custom := fmt.Sprintf("%s - Custom Description: %s", cat.Name, truncate(cat.Description, 20))
		record := []string{
			strconv.FormatUint(uint64(cat.ID), 10),
			cat.Name,
			cat.Description,
			cat.CreatedAt.Format(time.RFC3339),
			custom,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Products writes all products still in stock as CSV with a computed
// price-with-tax column.
func Products(db *gorm.DB, w io.Writer) error {
	var products []models.TeaProduct
	if err := db.Where("stock > 0").Order("id ASC").Find(&products).Error; err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "name", "category_id", "description", "price", "stock", "created_at", "price_with_tax"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			strconv.FormatUint(uint64(p.CategoryID), 10),
			p.Description,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.FormatUint(uint64(p.Stock), 10),
			p.CreatedAt.Format(time.RFC3339),
			strconv.FormatFloat(p.Price*taxRate, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
