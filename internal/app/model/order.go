package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string   // order lifecycle state
type PaymentStatus string // payment lifecycle state

const (
	OrderStatusPending OrderStatus = "pending" // awaiting payment
	OrderStatusPaid    OrderStatus = "paid"    // payment confirmed

	PaymentStatusPending   PaymentStatus = "pending"   // payment created, not yet confirmed
	PaymentStatusCompleted PaymentStatus = "completed" // provider confirmed payment
)

type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                     // order ID
	UserID           uint           `gorm:"not null;index" json:"user_id"`                            // buyer user ID
	TotalAmount      float64        `gorm:"not null" json:"total_amount"`                             // total charged amount
	Status           OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`         // order state
	PaymentStatus    PaymentStatus  `gorm:"type:varchar(20);default:'pending'" json:"payment_status"` // payment state
	ShippingAddress  string         `gorm:"type:text" json:"shipping_address"`                        // delivery address
	PaymentID        string         `gorm:"type:varchar(64);index" json:"payment_id,omitempty"`       // provider payment ID
	WalletAddress    string         `gorm:"type:varchar(128)" json:"wallet_address,omitempty"`        // crypto wallet to pay into
	PaymentCurrency  string         `gorm:"type:varchar(10)" json:"payment_currency,omitempty"`       // payment currency code
	PaymentCheckURL  string         `json:"payment_check_url,omitempty"`                              // provider status check URL
	PaymentUpdatedAt *time.Time     `json:"payment_updated_at,omitempty"`                             // last payment state change
	CreatedAt        time.Time      `json:"created_at"`                                               // creation time
	UpdatedAt        time.Time      `json:"updated_at"`                                               // last update time
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                           // soft delete time

	User       User        `gorm:"foreignKey:UserID" json:"-"`                                        // buyer info
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"` // order lines
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`             // order item ID
	OrderID   uint           `gorm:"not null;index" json:"order_id"`   // owning order ID
	ProductID uint           `gorm:"not null;index" json:"product_id"` // product ID
	Name      string         `gorm:"not null" json:"name"`             // product name snapshot
	Price     float64        `gorm:"not null" json:"price"`            // unit price at checkout
	Quantity  int            `gorm:"not null" json:"quantity"`         // units
	Subtotal  float64        `gorm:"not null" json:"subtotal"`         // price * quantity
	CreatedAt time.Time      `json:"created_at"`                       // creation time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // soft delete time

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`                   // owning order
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // product info
}

func (OrderItem) TableName() string {
	return "order_items"
}
