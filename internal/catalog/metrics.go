package catalog

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter       = otel.Meter("catalog")
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
)

func init() {
	cacheHits, _ = meter.Int64Counter("catalog.cache.hits",
		metric.WithDescription("Storefront reads served from the snapshot cache"))
	cacheMisses, _ = meter.Int64Counter("catalog.cache.misses",
		metric.WithDescription("Storefront reads that fell through to the database"))
}
