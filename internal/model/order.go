package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is owned by the storefront; the chat service only reads it.
type Order struct {
	ID            string          `gorm:"primaryKey;size:64" json:"id"`
	Status        string          `gorm:"size:32;not null" json:"status"`
	PaymentStatus string          `gorm:"size:32;not null" json:"paymentStatus"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt     time.Time       `json:"createdAt"`
}
