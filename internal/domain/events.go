package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlacedEvent is published on checkout and consumed by the
// notification worker.
type OrderPlacedEvent struct {
	OrderID       string          `json:"order_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Address       string          `json:"address"`
	Neighborhood  string          `json:"neighborhood"`
	Items         []OrderItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AppliedCoupon string          `json:"applied_coupon,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	Timestamp     time.Time       `json:"timestamp"`
}

// CatalogChangedEvent is published by the back office after any product,
// category or fee mutation, so storefront instances drop their cached
// snapshots.
type CatalogChangedEvent struct {
	Action    string    `json:"action"`
	Table     string    `json:"table"`
	RecordIDs []string  `json:"record_ids,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
