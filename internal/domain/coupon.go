package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponFixed   CouponType = "fixed"
	CouponPercent CouponType = "percent"
)

type Coupon struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Value     decimal.Decimal `json:"value"`
	Type      CouponType      `json:"type"`
	IsActive  bool            `json:"is_active"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	ProductID string          `json:"product_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Expired reports whether the coupon's end date has passed at now. Coupons
// without an end date never expire.
func (c Coupon) Expired(now time.Time) bool {
	return c.EndDate != nil && c.EndDate.Before(now)
}

// DiscountOn computes the discount the coupon grants over a subtotal:
// percent coupons take value% of the subtotal, fixed coupons take the value
// itself.
func (c Coupon) DiscountOn(subtotal decimal.Decimal) decimal.Decimal {
	if c.Type == CouponPercent {
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
	}
	return c.Value
}

type DeliveryFee struct {
	ID           string          `json:"id"`
	Neighborhood string          `json:"neighborhood"`
	Fee          decimal.Decimal `json:"fee"`
}
