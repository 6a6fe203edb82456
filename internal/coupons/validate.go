// Package coupons manages discount coupons: back-office CRUD and the
// checkout-time validation rules.
package coupons

import (
	"errors"
	"time"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

// Validation failures, in the order they are checked.
var (
	ErrNotFound   = errors.New("coupon not found")
	ErrPaused     = errors.New("coupon paused")
	ErrExpired    = errors.New("coupon expired")
	ErrRestricted = errors.New("coupon restricted to a product not in the cart")
)

// Validate applies the coupon rules against a cart. The check order is
// fixed: existence, paused, expired, product restriction; the customer
// sees the first failure.
func Validate(coupon *domain.Coupon, cartProductIDs []string, now time.Time) error {
	if coupon == nil {
		return ErrNotFound
	}
	if !coupon.IsActive {
		return ErrPaused
	}
	if coupon.Expired(now) {
		return ErrExpired
	}
	if coupon.ProductID != "" {
		for _, id := range cartProductIDs {
			if id == coupon.ProductID {
				return nil
			}
		}
		return ErrRestricted
	}
	return nil
}
