package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/merchkit/storefront/internal/service"
)

// RefreshWorker periodically re-fetches the catalog through the service
// fetch path. Overlap with a user-triggered fetch is safe: the service
// discards whichever completion is stale.
type RefreshWorker struct {
	catalogSvc *service.CatalogService
	interval   time.Duration
}

// NewRefreshWorker constructs a RefreshWorker.
func NewRefreshWorker(catalogSvc *service.CatalogService, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{catalogSvc: catalogSvc, interval: interval}
}

// Start begins the periodic refresh loop and listens for context
// cancellation. The first fetch runs immediately.
func (w *RefreshWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting catalog refresh worker")

	w.catalogSvc.Refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.catalogSvc.Refresh(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog refresh worker stopped")
			return
		}
	}
}
