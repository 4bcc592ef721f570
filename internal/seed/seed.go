package seed

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/models"
)

var categories = []string{
	"Чёрный чай",
	"Зелёный чай",
	"Травяной чай",
	"Белый чай",
}

var products = []struct {
	Name     string
	Category string
	Price    float64
	Stock    uint
}{
	{Name: "Чёрный Ассам", Category: "Чёрный чай", Price: 150.00, Stock: 50},
	{Name: "Зелёный Сенча", Category: "Зелёный чай", Price: 200.00, Stock: 30},
	{Name: "Ромашковый чай", Category: "Травяной чай", Price: 100.00, Stock: 40},
}

// Populate creates the initial categories and products. Safe to run more
// than once: existing records are left untouched.
func Populate(db *gorm.DB) error {
	for _, name := range categories {
		var category models.TeaCategory
		if err := db.FirstOrCreate(&category, models.TeaCategory{Name: name}).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	for _, p := range products {
		var category models.TeaCategory
		if err := db.Where("name = ?", p.Category).First(&category).Error; err != nil {
			return fmt.Errorf("seed product %q: category %q missing: %w", p.Name, p.Category, err)
		}

		var product models.TeaProduct
		if err := db.Where(models.TeaProduct{Name: p.Name, CategoryID: category.ID}).
			Attrs(models.TeaProduct{Price: p.Price, Stock: p.Stock}).
			FirstOrCreate(&product).Error; err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}

	return nil
}
