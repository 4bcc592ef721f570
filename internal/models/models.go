package models

import (
	"time"
)

type TeaCategory struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:50;unique;not null"  json:"name"`
	Description string    `gorm:"type:text"                json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type TeaProduct struct {
	ID          uint         `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name        string       `gorm:"size:100;not null"           json:"name"`
	CategoryID  uint         `gorm:"index;not null"              json:"category_id"`
	Category    *TeaCategory `gorm:"foreignKey:CategoryID"       json:"category,omitempty"`
	Description string       `gorm:"type:text"                   json:"description"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       uint         `gorm:"not null;default:0"          json:"stock"`
	CreatedAt   time.Time    `json:"created_at"`
}

type Customer struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null"        json:"name"`
	Email     string    `gorm:"size:254;unique;not null" json:"email"`
	Address   string    `gorm:"type:text"                json:"address"`
	Phone     string    `gorm:"size:15"                  json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

type Order struct {
	ID         uint        `gorm:"primaryKey;autoIncrement"         json:"id"`
	CustomerID uint        `gorm:"index;not null"                   json:"customer_id"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID"            json:"customer,omitempty"`
	TotalPrice float64     `gorm:"type:decimal(10,2);not null"      json:"total_price"`
	Status     string      `gorm:"size:20;not null;default:pending" json:"status"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"               json:"items,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint        `gorm:"index;not null"              json:"order_id"`
	ProductID uint        `gorm:"not null"                    json:"product_id"`
	Product   *TeaProduct `gorm:"foreignKey:ProductID"        json:"product,omitempty"`
	Quantity  uint        `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64     `gorm:"type:decimal(10,2);not null" json:"price"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uint      `gorm:"index;not null"  json:"user_id"`
	Role      string    `gorm:"not null"        json:"role"`
	ExpiresAt time.Time `gorm:"not null"        json:"expires_at"`
	Revoked   bool      `gorm:"default:false"   json:"revoked"`
}
