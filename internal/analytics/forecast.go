package analytics

import (
	"math"
	"time"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

// DefaultLookbackDays bounds "recent" order history for run-rate math.
const DefaultLookbackDays = 30

// Forecast projects the remaining stock of a product after horizonDays,
// assuming sales continue at the average daily rate observed over the
// last lookbackDays before now. The result is clamped at zero and
// rounded to one decimal. A degenerate computation (non-positive
// lookback) falls back to the current stock unchanged.
func Forecast(currentStock int, productID string, orders []domain.Order, lookbackDays, horizonDays int, now time.Time) float64 {
	if lookbackDays <= 0 {
		return float64(currentStock)
	}

	cutoff := now.AddDate(0, 0, -lookbackDays)
	totalSold := 0
	for _, o := range orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == productID {
				totalSold += item.Quantity
			}
		}
	}

	dailyAverage := float64(totalSold) / float64(lookbackDays)
	projected := float64(currentStock) - dailyAverage*float64(horizonDays)
	if math.IsNaN(projected) {
		return float64(currentStock)
	}
	return math.Round(math.Max(0, projected)*10) / 10
}
