package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/mercadinho/internal/domain"
	"github.com/joao-fontenele/mercadinho/internal/snapshot"
)

// Invalidator drops the storefront snapshots when a catalog change event
// arrives, so the next read refetches from the database.
type Invalidator struct {
	cache  *snapshot.Cache
	logger *slog.Logger
}

func NewInvalidator(cache *snapshot.Cache, logger *slog.Logger) *Invalidator {
	return &Invalidator{
		cache:  cache,
		logger: logger,
	}
}

func (i *Invalidator) Handle(ctx context.Context, payload []byte) error {
	var event domain.CatalogChangedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal catalog changed event: %w", err)
	}

	i.cache.Invalidate(cacheKeyCatalog)
	i.cache.Invalidate(cacheKeyCategories)

	i.logger.Info("catalog snapshot invalidated",
		"action", event.Action, "table", event.Table, "records", len(event.RecordIDs))
	return nil
}
