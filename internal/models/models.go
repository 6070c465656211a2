package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User - The staff member operating the counter
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff'
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The Inventory
type Product struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Category   string          `json:"category"`
	StockLevel int             `json:"stock_level"` // Authoritative count, never below zero
	ImageURL   string          `json:"image_url"`
}

// Customer - Loyalty account holder. Points only change when an order commits.
type Customer struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	CustomerType  string `gorm:"default:Standard" json:"customer_type"` // 'Standard', 'Student', 'VIP', 'Corporate'
	LoyaltyPoints int    `json:"loyalty_points"`
}

// Order statuses. Counter sales are created 'paid' because payment is
// collected before the transaction commits.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusShipped = "shipped"
)

// Order - The Transaction Header. Immutable once created except Status.
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CustomerID    *uint           `json:"customer_id"` // Walk-in sales carry no customer
	UserID        uint            `json:"user_id"`     // Who processed it
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"` // 'Cash', 'Credit Card', 'EFTPOS'
	OrderDate     time.Time       `json:"order_date"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem - One cart line, with the catalog price captured at commit time.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `json:"order_id"`
	ProductID       uint            `json:"product_id"`
	Product         Product         `json:"product"` // Preload product details
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_at_purchase"`
}

// CanTransition reports whether an order status change is allowed.
// pending -> paid -> shipped, nothing else.
func CanTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusPaid
	case OrderStatusPaid:
		return to == OrderStatusShipped
	default:
		return false
	}
}
