package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	ImageURL      string          `json:"image_url"`
	CategoryID    string          `json:"category_id"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	MinStock      int             `json:"min_stock"`
	UnitType      string          `json:"unit_type"`
	IsActive      bool            `json:"is_active"`
	IsFeatured    bool            `json:"is_featured"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InStock reports whether the product can be sold right now.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// CartItem is a product plus the quantity chosen by the customer. It only
// lives in the checkout request; at order creation it becomes a frozen
// order line item.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
