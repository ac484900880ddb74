package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/merchkit/storefront/internal/cache"
	"github.com/merchkit/storefront/internal/models"
	"github.com/merchkit/storefront/pkg/commerce"
)

// CatalogFetcher retrieves the raw catalog for one store scope. The
// commerce client implements it; tests substitute fakes.
type CatalogFetcher interface {
	GetCatalog(ctx context.Context, endpoint, store, query string) (*commerce.CatalogResponse, error)
}

// SnapshotCache caches catalog payloads by fetch key. A nil cache is
// valid and means every fetch goes to the commerce API.
type SnapshotCache interface {
	Get(ctx context.Context, fetchKey string) (*cache.CatalogPayload, error)
	Set(ctx context.Context, fetchKey string, payload *cache.CatalogPayload) error
}

// CartRequester receives add-to-cart and buy-now requests. Persistent cart
// state and checkout live outside this service; it only forwards the
// normalized product and quantity.
type CartRequester interface {
	RequestAddToCart(ctx context.Context, p models.NormalizedProduct, quantity int) error
	RequestBuyNow(ctx context.Context, p models.NormalizedProduct, quantity int) error
}

// Navigator resolves view-product-detail intents. Routing is external; the
// service only emits the product identifier.
type Navigator interface {
	ViewProductDetail(productID string)
}

// LogCartRequester is the default CartRequester: it acknowledges requests
// in the log until a real cart backend is wired.
type LogCartRequester struct{}

func (LogCartRequester) RequestAddToCart(_ context.Context, p models.NormalizedProduct, quantity int) error {
	log.Info().Str("product_id", p.ID).Int("quantity", quantity).Msg("Add-to-cart request accepted")
	return nil
}

func (LogCartRequester) RequestBuyNow(_ context.Context, p models.NormalizedProduct, quantity int) error {
	log.Info().Str("product_id", p.ID).Int("quantity", quantity).Msg("Buy-now request accepted")
	return nil
}

// LogNavigator is the default Navigator.
type LogNavigator struct{}

func (LogNavigator) ViewProductDetail(productID string) {
	log.Info().Str("product_id", productID).Msg("View product detail intent")
}
