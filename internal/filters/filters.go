package filters

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/models"
)

// ProductFilter is a named boolean predicate over the product table. Each
// constant corresponds to one read-only filter endpoint and is the single
// source of truth for that endpoint's predicate.
type ProductFilter string

const (
	// ComplexOne: stock <> 0 AND (price > 50 OR name contains "premium").
	ComplexOne ProductFilter = "filter_complex_one"

	// ComplexTwo: name <> '' OR (stock > 0 AND name contains "classic").
	// The first clause already matches every product with a non-empty name,
	// which makes the second clause dead for well-formed data. Kept as is.
	ComplexTwo ProductFilter = "filter_complex_two"

	// ByPriceRange: 20 <= price <= 200, bounds inclusive.
	ByPriceRange ProductFilter = "filter_by_price_range"

	// ByStockAndCategory: stock > 0 AND category name contains "зелёный".
	ByStockAndCategory ProductFilter = "filter_by_stock_and_category"

	// NotInStockOrExpensive: stock = 0 OR price > 200.
	NotInStockOrExpensive ProductFilter = "filter_not_in_stock_or_expensive"
)

// Substring patterns are stored pre-lowered because SQLite's LOWER folds
// ASCII only; the column side is folded by the store.
const (
	premiumPattern = "%premium%"
	classicPattern = "%classic%"
	greenPattern   = "%зелёный%"
)

func All() []ProductFilter {
	return []ProductFilter{
		ComplexOne,
		ComplexTwo,
		ByPriceRange,
		ByStockAndCategory,
		NotInStockOrExpensive,
	}
}

func (f ProductFilter) String() string { return string(f) }

// Scope translates the filter into a gorm query over tea_products.
func (f ProductFilter) Scope(db *gorm.DB) (*gorm.DB, error) {
	q := db.Model(&models.TeaProduct{})

	switch f {
	case ComplexOne:
		return q.Where("tea_products.stock <> 0").
			Where(db.Where("tea_products.price > ?", 50.0).
				Or("LOWER(tea_products.name) LIKE ?", premiumPattern)), nil

	case ComplexTwo:
		return q.Where(db.Where("tea_products.name <> ''").
			Or(db.Where("tea_products.stock > 0").
				Where("LOWER(tea_products.name) LIKE ?", classicPattern))), nil

	case ByPriceRange:
		return q.Where("tea_products.price >= ? AND tea_products.price <= ?", 20.0, 200.0), nil

	case ByStockAndCategory:
		return q.Joins("JOIN tea_categories ON tea_categories.id = tea_products.category_id").
			Where("tea_products.stock > 0").
			Where("LOWER(tea_categories.name) LIKE ?", greenPattern), nil

	case NotInStockOrExpensive:
		return q.Where(db.Where("tea_products.stock = 0").
			Or("tea_products.price > ?", 200.0)), nil
	}

	return nil, fmt.Errorf("unknown product filter %q", string(f))
}

// Products evaluates the filter and returns the matching products ordered
// by primary key, the store default. An empty result is not an error.
func (f ProductFilter) Products(db *gorm.DB) ([]models.TeaProduct, error) {
	q, err := f.Scope(db)
	if err != nil {
		return nil, err
	}

	products := make([]models.TeaProduct, 0)
	if err := q.Order("tea_products.id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// NameContains is the predicate behind the search action: case-insensitive
// substring match on the product name. An empty query matches everything.
func NameContains(db *gorm.DB, query string) *gorm.DB {
	pattern := "%" + strings.ToLower(query) + "%"
	return db.Model(&models.TeaProduct{}).Where("LOWER(name) LIKE ?", pattern)
}
