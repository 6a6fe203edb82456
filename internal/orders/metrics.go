package orders

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter            = otel.Meter("orders")
	ordersPlaced     metric.Int64Counter
	checkoutRejected metric.Int64Counter
)

func init() {
	ordersPlaced, _ = meter.Int64Counter("orders.placed",
		metric.WithDescription("Orders accepted at checkout"))
	checkoutRejected, _ = meter.Int64Counter("checkout.rejected",
		metric.WithDescription("Checkout requests rejected before an order was created"))
}
