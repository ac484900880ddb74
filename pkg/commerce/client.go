package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for the headless commerce API that
// storefronts are generated against.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient constructs a commerce client with sane defaults. baseURL is the
// API root, e.g. https://api.example-commerce.io/v1.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		debug:      os.Getenv("ENV") == "development",
	}
}

// GetCatalog retrieves the products and categories for one store scope.
// endpoint overrides the client's base URL when non-empty, so a storefront
// can be repointed at runtime. query optionally narrows the product list
// server-side.
//
// Any transport, status or decode failure is returned as an error with no
// partial result: callers either get the full catalog or an explicit
// failure signal.
func (c *Client) GetCatalog(ctx context.Context, endpoint, store, query string) (*CatalogResponse, error) {
	base := c.baseURL
	if endpoint != "" {
		base = strings.TrimRight(endpoint, "/")
	}

	u := fmt.Sprintf("%s/store/%s/catalog", base, url.PathEscape(store))
	if query != "" {
		u += "?search=" + url.QueryEscape(query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("url", u).
			Int("status_code", resp.StatusCode).
			Msg("[COMMERCE] Catalog response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog request returned status %d", resp.StatusCode)
	}

	var catalog CatalogResponse
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &catalog, nil
}
