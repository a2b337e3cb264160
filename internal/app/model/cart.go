package model

import (
	"time"

	"gorm.io/gorm"
)

type Cart struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // cart ID
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`    // owner user ID (one cart per user)
	TotalAmount float64        `gorm:"not null;default:0" json:"total_amount"` // sum of item subtotals
	CreatedAt   time.Time      `json:"created_at"`                             // creation time
	UpdatedAt   time.Time      `json:"updated_at"`                             // last update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                         // soft delete time

	User  User       `gorm:"foreignKey:UserID" json:"-"`                                 // owner
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // cart lines
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // cart item ID
	CartID    uint           `gorm:"not null;index" json:"cart_id"`    // owning cart ID
	ProductID uint           `gorm:"not null;index" json:"product_id"` // product ID
	Name      string         `gorm:"not null" json:"name"`             // product name snapshot
	Price     float64        `gorm:"not null" json:"price"`            // unit price locked at first add
	Quantity  int            `gorm:"not null" json:"quantity"`         // units
	Subtotal  float64        `gorm:"not null" json:"subtotal"`         // price * quantity
	CreatedAt time.Time      `json:"created_at"`                       // creation time
	UpdatedAt time.Time      `json:"updated_at"`                       // last update time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // soft delete time

	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`                    // owning cart
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // product info
}

func (CartItem) TableName() string {
	return "cart_items"
}
