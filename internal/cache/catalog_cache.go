package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/merchkit/storefront/internal/models"
)

// CatalogPayload is a cached catalog fetch result.
type CatalogPayload struct {
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
	CachedAt   time.Time         `json:"cachedAt"`
}

// CatalogCache keeps recent catalog payloads in redis, keyed by the fetch
// key (endpoint, store scope, search text). Repointing the search back to
// a recently fetched value inside the TTL serves from cache instead of
// re-hitting the commerce API.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCatalogCache constructs a CatalogCache with the given entry TTL.
func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

func (c *CatalogCache) key(fetchKey string) string {
	return fmt.Sprintf("catalog:%s", fetchKey)
}

// Get returns the cached payload for a fetch key, or nil on a miss.
func (c *CatalogCache) Get(ctx context.Context, fetchKey string) (*CatalogPayload, error) {
	raw, err := c.rdb.Get(ctx, c.key(fetchKey)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var payload CatalogPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return &payload, nil
}

// Set stores a payload under a fetch key with the configured TTL.
func (c *CatalogCache) Set(ctx context.Context, fetchKey string, payload *CatalogPayload) error {
	payload.CachedAt = time.Now()

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog payload: %w", err)
	}
	return c.rdb.Set(ctx, c.key(fetchKey), raw, c.ttl).Err()
}

// Invalidate drops the cached payload for a fetch key.
func (c *CatalogCache) Invalidate(ctx context.Context, fetchKey string) error {
	return c.rdb.Del(ctx, c.key(fetchKey)).Err()
}
