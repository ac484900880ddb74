package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/storefront/internal/cache"
	"github.com/merchkit/storefront/internal/models"
	"github.com/merchkit/storefront/internal/service"
	"github.com/merchkit/storefront/internal/store"
	"github.com/merchkit/storefront/internal/utils"
	"github.com/merchkit/storefront/internal/view"
	"github.com/merchkit/storefront/pkg/commerce"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []string
	resp    map[string]*commerce.CatalogResponse
	errs    map[string]error
	started map[string]chan struct{}
	gates   map[string]chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		resp:    map[string]*commerce.CatalogResponse{},
		errs:    map[string]error{},
		started: map[string]chan struct{}{},
		gates:   map[string]chan struct{}{},
	}
}

func (f *fakeFetcher) GetCatalog(_ context.Context, _, _, query string) (*commerce.CatalogResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	started := f.started[query]
	gate := f.gates[query]
	resp := f.resp[query]
	err := f.errs[query]
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = defaultCatalog()
	}
	return resp, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) setErr(query string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[query] = err
}

func defaultCatalog() *commerce.CatalogResponse {
	return &commerce.CatalogResponse{
		Products: []commerce.Product{
			{ID: "p1", Name: "A", SalePrice: "10", Category: "c1", StockStatus: "IN_STOCK"},
			{ID: "p2", Name: "B", SalePrice: "5", Category: "c2", StockStatus: "OUT_OF_STOCK"},
		},
		Categories: []commerce.Category{
			{ID: "c1", Name: "Shoes"},
			{ID: "c2", Name: "Hats"},
		},
	}
}

type cartRecorder struct {
	added  []string
	bought []string
}

func (r *cartRecorder) RequestAddToCart(_ context.Context, p models.NormalizedProduct, _ int) error {
	r.added = append(r.added, p.ID)
	return nil
}

func (r *cartRecorder) RequestBuyNow(_ context.Context, p models.NormalizedProduct, _ int) error {
	r.bought = append(r.bought, p.ID)
	return nil
}

type navRecorder struct {
	viewed []string
}

func (r *navRecorder) ViewProductDetail(productID string) {
	r.viewed = append(r.viewed, productID)
}

func newService(fetcher *fakeFetcher, snapshotCache service.SnapshotCache) (*service.CatalogService, *cartRecorder, *navRecorder) {
	cart := &cartRecorder{}
	nav := &navRecorder{}
	svc := service.NewCatalogService(
		fetcher,
		snapshotCache,
		store.New(),
		view.NewEngine(8, 8, ""),
		cart,
		nav,
		"https://api.test",
		"demo-store",
	)
	return svc, cart, nav
}

func TestRefreshLoadsCatalog(t *testing.T) {
	fetcher := newFakeFetcher()
	svc, _, _ := newService(fetcher, nil)

	svc.Refresh(context.Background())

	vw := svc.View()
	assert.Equal(t, view.StatusReady, vw.Status)
	assert.Len(t, vw.Products, 2)
	assert.Equal(t, 5.0, vw.PriceRange.Min)
	assert.Equal(t, 10.0, vw.PriceRange.Max)
	assert.True(t, vw.State.PriceMin.Equal(decimal.NewFromInt(5)), "active bounds reset to derived range")
}

func TestFetchFailureThenRetry(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.setErr("", errors.New("connection refused"))
	svc, _, _ := newService(fetcher, nil)

	svc.Refresh(context.Background())

	vw := svc.View()
	require.Equal(t, view.StatusErrored, vw.Status)
	assert.Contains(t, vw.Error, "connection refused")
	assert.Empty(t, vw.Products)

	// While errored, background refresh is skipped.
	svc.Refresh(context.Background())
	assert.Equal(t, 1, fetcher.callCount())

	fetcher.setErr("", nil)
	require.NoError(t, svc.Retry(context.Background()))

	vw = svc.View()
	assert.Equal(t, view.StatusReady, vw.Status)
	assert.Empty(t, vw.Error, "stale error cleared after successful retry")
	assert.Len(t, vw.Products, 2)

	assert.ErrorIs(t, svc.Retry(context.Background()), utils.ErrRetryNotAllowed)
}

func TestSearchChangeTriggersFetch(t *testing.T) {
	fetcher := newFakeFetcher()
	svc, _, _ := newService(fetcher, nil)
	svc.Refresh(context.Background())
	require.Equal(t, 1, fetcher.callCount())

	q := "hat"
	svc.UpdateView(context.Background(), view.StateChange{Search: &q})
	assert.Equal(t, 2, fetcher.callCount(), "search change issues a new fetch")

	svc.UpdateView(context.Background(), view.StateChange{Search: &q})
	assert.Equal(t, 2, fetcher.callCount(), "unchanged search does not re-fetch")

	sortKey := view.SortNameAsc
	svc.UpdateView(context.Background(), view.StateChange{Sort: &sortKey})
	assert.Equal(t, 2, fetcher.callCount(), "sort change only re-derives")
}

func TestEndpointChangeTriggersFetch(t *testing.T) {
	fetcher := newFakeFetcher()
	svc, _, _ := newService(fetcher, nil)
	svc.Refresh(context.Background())
	require.Equal(t, 1, fetcher.callCount())

	svc.SetEndpoint(context.Background(), "https://other.test")
	assert.Equal(t, 2, fetcher.callCount())

	svc.SetEndpoint(context.Background(), "https://other.test")
	assert.Equal(t, 2, fetcher.callCount(), "unchanged endpoint does not re-fetch")
}

func TestStaleCompletionDiscarded(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.resp["slow"] = &commerce.CatalogResponse{
		Products:   []commerce.Product{{ID: "old", Name: "Old", SalePrice: "1", Category: "c1"}},
		Categories: []commerce.Category{{ID: "c1", Name: "Stale"}},
	}
	fetcher.resp["fast"] = &commerce.CatalogResponse{
		Products:   []commerce.Product{{ID: "new", Name: "New", SalePrice: "2", Category: "c1"}},
		Categories: []commerce.Category{{ID: "c1", Name: "Fresh"}},
	}
	slowStarted := make(chan struct{})
	slowGate := make(chan struct{})
	fetcher.started["slow"] = slowStarted
	fetcher.gates["slow"] = slowGate

	svc, _, _ := newService(fetcher, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q := "slow"
		svc.UpdateView(context.Background(), view.StateChange{Search: &q})
	}()

	<-slowStarted // the slow fetch is registered and in flight

	q := "fast"
	svc.UpdateView(context.Background(), view.StateChange{Search: &q})

	close(slowGate) // let the overlapped fetch complete late
	wg.Wait()

	vw := svc.View()
	require.Len(t, vw.Products, 1)
	assert.Equal(t, "new", vw.Products[0].ID, "late completion of the older fetch must be discarded")
	assert.Equal(t, "fast", vw.State.Search)
}

func TestCartHooks(t *testing.T) {
	fetcher := newFakeFetcher()
	svc, cart, _ := newService(fetcher, nil)
	svc.Refresh(context.Background())

	t.Run("AddToCartInStock", func(t *testing.T) {
		require.NoError(t, svc.AddToCart(context.Background(), "p1", 2))
		assert.Equal(t, []string{"p1"}, cart.added)
	})

	t.Run("RefusedWhenOutOfStock", func(t *testing.T) {
		assert.ErrorIs(t, svc.AddToCart(context.Background(), "p2", 1), utils.ErrOutOfStock)
		assert.ErrorIs(t, svc.BuyNow(context.Background(), "p2", 1), utils.ErrOutOfStock)
		assert.Empty(t, cart.bought)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		assert.ErrorIs(t, svc.AddToCart(context.Background(), "ghost", 1), utils.ErrProductNotFound)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		assert.ErrorIs(t, svc.AddToCart(context.Background(), "p1", 0), utils.ErrInvalidQuantity)
	})

	t.Run("BuyNowInStock", func(t *testing.T) {
		require.NoError(t, svc.BuyNow(context.Background(), "p1", 1))
		assert.Equal(t, []string{"p1"}, cart.bought)
	})
}

func TestViewProductEmitsIntent(t *testing.T) {
	fetcher := newFakeFetcher()
	svc, _, nav := newService(fetcher, nil)
	svc.Refresh(context.Background())

	p, err := svc.ViewProduct("p1")
	require.NoError(t, err)
	assert.Equal(t, "A", p.Name)
	assert.Equal(t, []string{"p1"}, nav.viewed)

	_, err = svc.ViewProduct("ghost")
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

type fakeCache struct {
	payload *cache.CatalogPayload
	sets    []string
}

func (c *fakeCache) Get(_ context.Context, _ string) (*cache.CatalogPayload, error) {
	return c.payload, nil
}

func (c *fakeCache) Set(_ context.Context, key string, _ *cache.CatalogPayload) error {
	c.sets = append(c.sets, key)
	return nil
}

func TestSnapshotCache(t *testing.T) {
	t.Run("HitSkipsRemoteFetch", func(t *testing.T) {
		fetcher := newFakeFetcher()
		cached := &fakeCache{payload: &cache.CatalogPayload{
			Products:   []models.Product{{ID: "cached", Name: "Cached", SalePrice: "3", CategoryID: "c1"}},
			Categories: []models.Category{{ID: "c1", Name: "Shoes"}},
		}}
		svc, _, _ := newService(fetcher, cached)

		svc.Refresh(context.Background())

		assert.Zero(t, fetcher.callCount())
		vw := svc.View()
		require.Len(t, vw.Products, 1)
		assert.Equal(t, "cached", vw.Products[0].ID)
	})

	t.Run("MissFallsThroughAndFills", func(t *testing.T) {
		fetcher := newFakeFetcher()
		cached := &fakeCache{}
		svc, _, _ := newService(fetcher, cached)

		svc.Refresh(context.Background())

		assert.Equal(t, 1, fetcher.callCount())
		assert.Len(t, cached.sets, 1)
	})
}
