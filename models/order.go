package models

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing" // order placed, stock reserved
	OrderStatusShipped    OrderStatus = "shipped"    // out for delivery
	OrderStatusCompleted  OrderStatus = "completed"  // customer received the items
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled before shipping
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderRef        string      `gorm:"uniqueIndex" json:"order_ref"`
	UserID          string      `gorm:"not null;index" json:"user_id"`
	User            User        `gorm:"foreignKey:UserID" json:"user"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"` // e.g. "card", "cod"
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `gorm:"type:VARCHAR(20);default:'processing'" json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderItem snapshots the product at purchase time; later price or name
// changes do not rewrite order history.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}
