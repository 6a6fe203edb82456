// Package analytics computes sales reports over order and catalog
// snapshots: ABC revenue classification, run-rate demand forecasts and
// promotion suggestions. Everything here is pure; callers fetch the
// snapshots and hand them in.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

type Class string

const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
)

// ClassifiedProduct is one row of an ABC report.
type ClassifiedProduct struct {
	ProductID             string          `json:"product_id"`
	Name                  string          `json:"name"`
	QuantitySold          int             `json:"quantity_sold"`
	Revenue               decimal.Decimal `json:"revenue"`
	StockQuantity         int             `json:"stock_quantity"`
	PercentageOfTotal     float64         `json:"percentage_of_total"`
	AccumulatedPercentage float64         `json:"accumulated_percentage"`
	Class                 Class           `json:"class"`
}

// ABCReport buckets products by cumulative revenue share: the products
// making up the first 80% of revenue are class A, the next 15% class B
// and the tail class C.
type ABCReport struct {
	Items        []ClassifiedProduct `json:"items"`
	TotalRevenue decimal.Decimal     `json:"total_revenue"`
	CountA       int                 `json:"count_a"`
	CountB       int                 `json:"count_b"`
	CountC       int                 `json:"count_c"`
}

// ClassifyABC aggregates revenue per product across all order line items
// and classifies each product by accumulated revenue share. Revenue is
// quantity sold times the product's CURRENT catalog price, not the frozen
// line-item price; the admin report has always worked that way and the
// numbers it shows are expected to move when prices change. Line items
// whose product no longer exists in the catalog are skipped.
func ClassifyABC(orders []domain.Order, products []domain.Product) ABCReport {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Accumulate in first-seen order so equal revenues keep a stable,
	// input-determined ordering.
	index := make(map[string]int)
	items := make([]ClassifiedProduct, 0)

	for _, o := range orders {
		for _, item := range o.Items {
			prod, ok := byID[item.ProductID]
			if !ok {
				continue
			}
			revenue := prod.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			if i, seen := index[item.ProductID]; seen {
				items[i].QuantitySold += item.Quantity
				items[i].Revenue = items[i].Revenue.Add(revenue)
				continue
			}
			index[item.ProductID] = len(items)
			items = append(items, ClassifiedProduct{
				ProductID:     item.ProductID,
				Name:          prod.Name,
				QuantitySold:  item.Quantity,
				Revenue:       revenue,
				StockQuantity: prod.StockQuantity,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Revenue.GreaterThan(items[j].Revenue)
	})

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Revenue)
	}

	report := ABCReport{Items: items, TotalRevenue: total}
	accumulated := decimal.Zero
	for i := range items {
		accumulated = accumulated.Add(items[i].Revenue)
		if total.IsPositive() {
			items[i].PercentageOfTotal = items[i].Revenue.Div(total).InexactFloat64() * 100
			items[i].AccumulatedPercentage = accumulated.Div(total).InexactFloat64() * 100
		}
		switch {
		case items[i].AccumulatedPercentage <= 80:
			items[i].Class = ClassA
			report.CountA++
		case items[i].AccumulatedPercentage <= 95:
			items[i].Class = ClassB
			report.CountB++
		default:
			items[i].Class = ClassC
			report.CountC++
		}
	}
	return report
}
