package processors

import (
	"context"
	"time"

	"duka/internal/catalog"
	"duka/internal/events"
	"duka/internal/feed"
	"duka/internal/logger"
)

// CatalogProcessor reacts to catalog change events by dropping the
// derived state: the catalog snapshot and the merchant feed cache slot.
// With the redis feed cache this invalidation reaches the API instances.
type CatalogProcessor struct {
	catalog   *catalog.Service
	feedCache feed.CacheStore
	logger    *logger.Logger
}

func NewCatalogProcessor(catalogService *catalog.Service, feedCache feed.CacheStore, logger *logger.Logger) *CatalogProcessor {
	return &CatalogProcessor{
		catalog:   catalogService,
		feedCache: feedCache,
		logger:    logger,
	}
}

func (p *CatalogProcessor) Process(event events.Event) error {
	switch event.Type {
	case events.TypeProductCreated,
		events.TypeProductUpdated,
		events.TypeProductDeleted,
		events.TypeCategoryChanged,
		events.TypeCurationChanged:
		p.logger.Info("Invalidating catalog state for event %s (%s)", event.Type, event.EntityID)
		p.catalog.Invalidate()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.feedCache.Clear(ctx)
	default:
		p.logger.Debug("Ignoring event type: %s", event.Type)
	}

	return nil
}
