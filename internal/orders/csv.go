package orders

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/joao-fontenele/mercadinho/internal/domain"
)

var csvHeader = []string{
	"id", "created_at", "customer_name", "payment_method",
	"subtotal", "delivery_fee", "discount", "total_amount", "applied_coupon",
}

// WriteCSV renders orders as the sales export spreadsheet.
func WriteCSV(w io.Writer, orders []domain.Order) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, o := range orders {
		record := []string{
			o.ID,
			o.CreatedAt.Format(time.RFC3339),
			o.CustomerName,
			o.PaymentMethod,
			o.Subtotal.StringFixed(2),
			o.DeliveryFee.StringFixed(2),
			o.Discount.StringFixed(2),
			o.TotalAmount.StringFixed(2),
			o.AppliedCoupon,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
