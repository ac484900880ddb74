package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables. It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Commerce CommerceConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Worker   WorkerConfig
}

// CommerceConfig identifies the headless commerce API and the store scope
// this storefront is generated for.
type CommerceConfig struct {
	Endpoint string
	Store    string
}

// RedisConfig contains Redis connection parameters. Redis is optional; an
// empty host disables the snapshot cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// CatalogConfig contains view-engine sizing and the seed search text
// handed in from the navigational layer.
type CatalogConfig struct {
	PageSize    int
	SectionSize int
	SeedSearch  string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	RefreshInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file
// exists in the working directory, it will be loaded first. It returns a
// populated Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that
	// production environments relying solely on real environment variables
	// keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Commerce API
	cfg.Commerce = CommerceConfig{
		Endpoint: getEnv("COMMERCE_ENDPOINT", ""),
		Store:    getEnv("COMMERCE_STORE", ""),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Catalog view engine
	cfg.Catalog = CatalogConfig{
		PageSize:    getEnvInt("CATALOG_PAGE_SIZE", 8),
		SectionSize: getEnvInt("CATALOG_SECTION_SIZE", 8),
		SeedSearch:  getEnv("CATALOG_SEED_SEARCH", ""),
	}

	// Durations
	var err error
	if cfg.Worker.RefreshInterval, err = parseDurationEnv("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	if cfg.Redis.CacheTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_CACHE_TTL: %w", err)
	}

	if cfg.Commerce.Endpoint == "" || cfg.Commerce.Store == "" {
		return nil, errors.New("commerce configuration incomplete: ensure COMMERCE_ENDPOINT and COMMERCE_STORE are set")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a
// default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as
// time.Duration. If the variable is empty, it falls back to the provided
// default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
