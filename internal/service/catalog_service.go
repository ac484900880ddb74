package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/merchkit/storefront/internal/cache"
	"github.com/merchkit/storefront/internal/models"
	"github.com/merchkit/storefront/internal/store"
	"github.com/merchkit/storefront/internal/utils"
	"github.com/merchkit/storefront/internal/view"
)

// fetchKey identifies one catalog fetch: the commerce endpoint, the store
// scope and the search text that triggered it. A completion whose key no
// longer matches the service's latest key is stale and discarded.
type fetchKey struct {
	endpoint string
	store    string
	search   string
}

func (k fetchKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.endpoint, k.store, k.search)
}

// CatalogService owns the catalog store and the view engine, orchestrates
// fetches from the commerce API and exposes the cart and navigation hooks.
// It is the single owner of the view state: every entry point serializes
// on the mutex, so engine derivations never run concurrently.
type CatalogService struct {
	mu sync.Mutex

	fetcher CatalogFetcher
	cache   SnapshotCache
	catalog *store.CatalogStore
	engine  *view.Engine
	cart    CartRequester
	nav     Navigator

	endpoint string
	shop     string
	gen      uint64
	last     fetchKey
}

// NewCatalogService wires the service. cache may be nil.
func NewCatalogService(
	fetcher CatalogFetcher,
	snapshotCache SnapshotCache,
	catalog *store.CatalogStore,
	engine *view.Engine,
	cart CartRequester,
	nav Navigator,
	endpoint, shop string,
) *CatalogService {
	return &CatalogService{
		fetcher:  fetcher,
		cache:    snapshotCache,
		catalog:  catalog,
		engine:   engine,
		cart:     cart,
		nav:      nav,
		endpoint: endpoint,
		shop:     shop,
	}
}

// currentKey derives the fetch key from the current state.
func (s *CatalogService) currentKey() fetchKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fetchKey{endpoint: s.endpoint, store: s.shop, search: s.engine.State().Search}
}

// Refresh re-fetches the catalog for the current fetch key. Used at
// startup and by the periodic refresh worker. While the view is errored
// the refresh is skipped: recovery from a failed fetch goes through Retry
// only.
func (s *CatalogService) Refresh(ctx context.Context) {
	s.mu.Lock()
	errored := s.engine.Status() == view.StatusErrored
	s.mu.Unlock()
	if errored {
		log.Debug().Msg("Skipping catalog refresh while view is errored")
		return
	}
	s.fetch(ctx, s.currentKey())
}

// Retry re-issues the fetch after a failure. Only legal from the errored
// state.
func (s *CatalogService) Retry(ctx context.Context) error {
	s.mu.Lock()
	ok := s.engine.Retry()
	s.mu.Unlock()
	if !ok {
		return utils.ErrRetryNotAllowed
	}
	s.fetch(ctx, s.currentKey())
	return nil
}

// fetch resolves one catalog fetch and applies the outcome unless a newer
// fetch has been issued meanwhile (last-fetch-wins). Cancellation of an
// overlapped fetch is ignore-on-arrival rather than a true abort.
func (s *CatalogService) fetch(ctx context.Context, key fetchKey) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.last = key
	s.engine.BeginFetch()
	s.mu.Unlock()

	fetchID := uuid.New().String()[:8]
	log.Debug().Str("fetch_id", fetchID).Str("store", key.store).Str("search", key.search).Msg("Fetching catalog")

	products, categories, err := s.resolve(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || key != s.last {
		log.Debug().Str("fetch_id", fetchID).Msg("Discarding stale catalog fetch")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("fetch_id", fetchID).Msg("Catalog fetch failed")
		s.catalog.LoadFailed(err)
		s.engine.FinishLoad(err)
		return
	}

	s.catalog.Load(products, categories)
	s.engine.RederiveBounds(s.catalog.Snapshot())
	s.engine.FinishLoad(nil)
	log.Info().
		Str("fetch_id", fetchID).
		Int("products", len(products)).
		Int("categories", len(categories)).
		Msg("Catalog loaded")
}

// resolve serves a fetch from the snapshot cache when possible and falls
// through to the commerce API. Cache failures are never fatal.
func (s *CatalogService) resolve(ctx context.Context, key fetchKey) ([]models.Product, []models.Category, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, key.String())
		if err != nil {
			log.Warn().Err(err).Msg("Catalog cache read failed")
		} else if payload != nil {
			return payload.Products, payload.Categories, nil
		}
	}

	resp, err := s.fetcher.GetCatalog(ctx, key.endpoint, key.store, key.search)
	if err != nil {
		return nil, nil, err
	}
	products, categories := mapCatalog(resp)

	if s.cache != nil {
		err := s.cache.Set(ctx, key.String(), &cache.CatalogPayload{
			Products:   products,
			Categories: categories,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Catalog cache write failed")
		}
	}
	return products, categories, nil
}

// UpdateView applies a view-state change and returns the re-derived view.
// A change to the search text changes the fetch key and issues a new
// fetch; every other change only re-derives.
func (s *CatalogService) UpdateView(ctx context.Context, ch view.StateChange) view.View {
	s.mu.Lock()
	before := s.engine.State().Search
	s.engine.Apply(ch, s.catalog.Snapshot())
	after := s.engine.State().Search
	s.mu.Unlock()

	if after != before {
		s.fetch(ctx, s.currentKey())
	}
	return s.View()
}

// SetEndpoint repoints the storefront at a different commerce endpoint and
// fetches the catalog for the new key.
func (s *CatalogService) SetEndpoint(ctx context.Context, endpoint string) {
	s.mu.Lock()
	changed := endpoint != s.endpoint
	s.endpoint = endpoint
	s.mu.Unlock()

	if changed {
		s.fetch(ctx, s.currentKey())
	}
}

// SelectCategory applies a category-banner click. The display layer
// scrolls to the all-products section off the returned state change.
func (s *CatalogService) SelectCategory(name string) view.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SelectCategory(name, s.catalog.Snapshot())
	return s.engine.Derive(s.catalog.Snapshot())
}

// ResetFilters restores the default category and the derived price range.
func (s *CatalogService) ResetFilters() view.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.ResetFilters()
	return s.engine.Derive(s.catalog.Snapshot())
}

// View derives the current catalog view.
func (s *CatalogService) View() view.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Derive(s.catalog.Snapshot())
}

// AddToCart forwards an add-to-cart request for an in-stock product.
func (s *CatalogService) AddToCart(ctx context.Context, productID string, quantity int) error {
	p, err := s.findProduct(productID)
	if err != nil {
		return err
	}
	if !p.InStock() {
		return utils.ErrOutOfStock
	}
	if quantity < 1 {
		return utils.ErrInvalidQuantity
	}
	return s.cart.RequestAddToCart(ctx, p.Normalize(), quantity)
}

// BuyNow forwards a buy-now request for an in-stock product.
func (s *CatalogService) BuyNow(ctx context.Context, productID string, quantity int) error {
	p, err := s.findProduct(productID)
	if err != nil {
		return err
	}
	if !p.InStock() {
		return utils.ErrOutOfStock
	}
	if quantity < 1 {
		return utils.ErrInvalidQuantity
	}
	return s.cart.RequestBuyNow(ctx, p.Normalize(), quantity)
}

// ViewProduct emits a view-product-detail intent and returns the product.
func (s *CatalogService) ViewProduct(productID string) (models.Product, error) {
	p, err := s.findProduct(productID)
	if err != nil {
		return models.Product{}, err
	}
	s.nav.ViewProductDetail(productID)
	return p, nil
}

func (s *CatalogService) findProduct(productID string) (models.Product, error) {
	s.mu.Lock()
	snap := s.catalog.Snapshot()
	s.mu.Unlock()

	for _, p := range snap.Products {
		if p.ID == productID {
			return p, nil
		}
	}
	return models.Product{}, utils.ErrProductNotFound
}
