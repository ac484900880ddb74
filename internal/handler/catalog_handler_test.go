package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/storefront/internal/handler"
	"github.com/merchkit/storefront/internal/service"
	"github.com/merchkit/storefront/internal/store"
	"github.com/merchkit/storefront/internal/view"
	"github.com/merchkit/storefront/pkg/commerce"
)

type stubFetcher struct{}

func (stubFetcher) GetCatalog(_ context.Context, _, _, _ string) (*commerce.CatalogResponse, error) {
	return &commerce.CatalogResponse{
		Products: []commerce.Product{
			{ID: "p1", Name: "Canvas Tote", SalePrice: "24.90", Category: "c1", StockStatus: "IN_STOCK"},
			{ID: "p2", Name: "Beanie", SalePrice: "12.50", Category: "c2", StockStatus: "OUT_OF_STOCK"},
		},
		Categories: []commerce.Category{
			{ID: "c1", Name: "Bags"},
			{ID: "c2", Name: "Hats"},
		},
	}, nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewCatalogService(
		stubFetcher{},
		nil,
		store.New(),
		view.NewEngine(8, 8, ""),
		&service.LogCartRequester{},
		&service.LogNavigator{},
		"https://api.test",
		"demo-store",
	)
	svc.Refresh(context.Background())

	catalogHandler := handler.NewCatalogHandler(svc)
	cartHandler := handler.NewCartHandler(svc)

	r := gin.New()
	r.GET("/v1/catalog", catalogHandler.GetCatalog)
	r.GET("/v1/catalog/home", catalogHandler.GetHome)
	r.POST("/v1/catalog/select-category", catalogHandler.SelectCategory)
	r.POST("/v1/catalog/retry", catalogHandler.Retry)
	r.GET("/v1/products/:id", catalogHandler.GetProduct)
	r.POST("/v1/cart", cartHandler.AddToCart)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w.Code, parsed
}

func TestGetCatalogEndpoint(t *testing.T) {
	r := newRouter(t)

	t.Run("ReturnsFullCatalog", func(t *testing.T) {
		code, body := doJSON(t, r, http.MethodGet, "/v1/catalog", "")
		require.Equal(t, http.StatusOK, code)

		data := body["data"].(map[string]any)
		assert.Equal(t, "ready", data["status"])
		assert.Len(t, data["products"], 2)
	})

	t.Run("CategoryFilterNarrows", func(t *testing.T) {
		code, body := doJSON(t, r, http.MethodGet, "/v1/catalog?category=Bags", "")
		require.Equal(t, http.StatusOK, code)

		data := body["data"].(map[string]any)
		products := data["products"].([]any)
		require.Len(t, products, 1)
		first := products[0].(map[string]any)
		assert.Equal(t, "Canvas Tote", first["name"])
	})

	t.Run("UnknownSortKeyRejected", func(t *testing.T) {
		code, body := doJSON(t, r, http.MethodGet, "/v1/catalog?sort=bogus", "")
		assert.Equal(t, http.StatusBadRequest, code)

		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "INVALID_SORT", errInfo["code"])
	})
}

func TestSelectCategoryEndpoint(t *testing.T) {
	r := newRouter(t)

	code, body := doJSON(t, r, http.MethodPost, "/v1/catalog/select-category", `{"category": "Hats"}`)
	require.Equal(t, http.StatusOK, code)

	data := body["data"].(map[string]any)
	assert.Equal(t, "all-products", data["scrollTo"])

	state := data["state"].(map[string]any)
	assert.Equal(t, "Hats", state["category"])

	code, _ = doJSON(t, r, http.MethodPost, "/v1/catalog/select-category", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRetryEndpointWhenHealthy(t *testing.T) {
	r := newRouter(t)

	code, body := doJSON(t, r, http.MethodPost, "/v1/catalog/retry", "")
	assert.Equal(t, http.StatusConflict, code)

	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "RETRY_NOT_ALLOWED", errInfo["code"])
}

func TestGetProductEndpoint(t *testing.T) {
	r := newRouter(t)

	code, body := doJSON(t, r, http.MethodGet, "/v1/products/p1", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	product := data["product"].(map[string]any)
	assert.Equal(t, "Canvas Tote", product["name"])

	code, _ = doJSON(t, r, http.MethodGet, "/v1/products/ghost", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAddToCartEndpoint(t *testing.T) {
	r := newRouter(t)

	t.Run("Accepted", func(t *testing.T) {
		code, _ := doJSON(t, r, http.MethodPost, "/v1/cart", `{"productId": "p1", "quantity": 2}`)
		assert.Equal(t, http.StatusAccepted, code)
	})

	t.Run("OutOfStockConflict", func(t *testing.T) {
		code, body := doJSON(t, r, http.MethodPost, "/v1/cart", `{"productId": "p2"}`)
		assert.Equal(t, http.StatusConflict, code)

		errInfo := body["error"].(map[string]any)
		assert.Equal(t, "OUT_OF_STOCK", errInfo["code"])
	})

	t.Run("UnknownProductNotFound", func(t *testing.T) {
		code, _ := doJSON(t, r, http.MethodPost, "/v1/cart", `{"productId": "ghost"}`)
		assert.Equal(t, http.StatusNotFound, code)
	})
}
