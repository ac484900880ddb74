package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/merchkit/storefront/internal/cache"
	"github.com/merchkit/storefront/internal/config"
	"github.com/merchkit/storefront/internal/handler"
	"github.com/merchkit/storefront/internal/middleware"
	"github.com/merchkit/storefront/internal/service"
	"github.com/merchkit/storefront/internal/store"
	"github.com/merchkit/storefront/internal/view"
	"github.com/merchkit/storefront/internal/worker"
	"github.com/merchkit/storefront/pkg/commerce"
)

// main is the application entrypoint for the storefront catalog API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("store", cfg.Commerce.Store).Msg("starting storefront api")

	// 3. Connect to Redis (optional snapshot cache)
	var snapshotCache service.SnapshotCache
	if cfg.Redis.Host != "" {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed - snapshot cache disabled")
		} else {
			defer redisClient.Close()
			snapshotCache = cache.NewCatalogCache(redisClient, cfg.Redis.CacheTTL)
			log.Info().Msg("redis connected successfully")
		}
	}

	// 4. Initialize commerce client
	commerceClient := commerce.NewClient(cfg.Commerce.Endpoint)

	// 5. Initialize catalog store and view engine
	catalogStore := store.New()
	engine := view.NewEngine(cfg.Catalog.PageSize, cfg.Catalog.SectionSize, cfg.Catalog.SeedSearch)

	// 6. Initialize catalog service with default collaborators
	catalogSvc := service.NewCatalogService(
		commerceClient,
		snapshotCache,
		catalogStore,
		engine,
		service.LogCartRequester{},
		service.LogNavigator{},
		cfg.Commerce.Endpoint,
		cfg.Commerce.Store,
	)

	// 7. Initialize handlers
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	cartHandler := handler.NewCartHandler(catalogSvc)
	healthHandler := handler.NewHealthHandler(catalogSvc)

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, catalogHandler, cartHandler, healthHandler)

	// 9. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start the catalog refresh worker (also performs the initial fetch)
	go worker.NewRefreshWorker(catalogSvc, cfg.Worker.RefreshInterval).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, catalog *handler.CatalogHandler, cart *handler.CartHandler, health *handler.HealthHandler) {
	router.GET("/v1/health", health.GetHealth)

	v1 := router.Group("/v1")
	{
		v1.GET("/catalog", catalog.GetCatalog)
		v1.GET("/catalog/home", catalog.GetHome)
		v1.POST("/catalog/select-category", catalog.SelectCategory)
		v1.POST("/catalog/reset-filters", catalog.ResetFilters)
		v1.POST("/catalog/retry", catalog.Retry)
		v1.GET("/products/:id", catalog.GetProduct)

		v1.POST("/cart", cart.AddToCart)
		v1.POST("/checkout", cart.BuyNow)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
