package maintenance

import (
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/models"
)

// ClearOutOfStock deletes every product whose stock is exhausted and
// returns the number of rows removed.
func ClearOutOfStock(db *gorm.DB) (int64, error) {
	res := db.Where("stock = 0").Delete(&models.TeaProduct{})
	return res.RowsAffected, res.Error
}
