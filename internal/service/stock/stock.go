package stock

import (
	"gorm.io/gorm"

	"github.com/Skotchmaster/tea_shop/internal/models"
)

// Result is the business outcome of a reduction attempt. Insufficient stock
// is an expected outcome, not an error.
type Result struct {
	Reduced   bool
	Remaining uint
}

// Reduce decrements a product's stock by quantity, never below zero. The
// decrement is a single conditional UPDATE, so two concurrent calls against
// the same product cannot both pass the precondition and over-decrement.
//
// An unknown product id surfaces as gorm.ErrRecordNotFound.
func Reduce(db *gorm.DB, productID uint, quantity uint) (Result, error) {
	var product models.TeaProduct
	if err := db.First(&product, productID).Error; err != nil {
		return Result{}, err
	}

	res := db.Model(&models.TeaProduct{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return Result{}, res.Error
	}

	if res.RowsAffected == 0 {
		return Result{Reduced: false, Remaining: product.Stock}, nil
	}

	if err := db.First(&product, productID).Error; err != nil {
		return Result{}, err
	}
	return Result{Reduced: true, Remaining: product.Stock}, nil
}
