package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a snapshot of a product at purchase time. Name and price are
// copied from the catalog so historical orders stay stable when the product
// is renamed, repriced or deleted.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type Order struct {
	ID            string          `json:"id"`
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
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type PaymentKind string

const (
	PaymentPix   PaymentKind = "pix"
	PaymentCash  PaymentKind = "cash"
	PaymentCard  PaymentKind = "card"
	PaymentOther PaymentKind = "other"
)

// ClassifyPayment buckets a free-text payment method. Matching is by
// normalized substring: "Cartão de Crédito" and "cartao debito" both land on
// card, "Dinheiro" on cash.
func ClassifyPayment(method string) PaymentKind {
	v := Normalize(method)
	switch {
	case strings.Contains(v, "pix"):
		return PaymentPix
	case strings.Contains(v, "dinheiro"), strings.Contains(v, "cash"):
		return PaymentCash
	case strings.Contains(v, "cart"):
		return PaymentCard
	}
	return PaymentOther
}
