// Package app wires configuration into the running components shared by the
// HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/shoefinder/backend/config"
	httpDelivery "github.com/shoefinder/backend/internal/delivery/http"
	mcpDelivery "github.com/shoefinder/backend/internal/delivery/mcp"
	"github.com/shoefinder/backend/internal/domain"
	"github.com/shoefinder/backend/internal/infrastructure/cache"
	"github.com/shoefinder/backend/internal/infrastructure/image"
	"github.com/shoefinder/backend/internal/infrastructure/metrics"
	"github.com/shoefinder/backend/internal/infrastructure/shopify"
	"github.com/shoefinder/backend/internal/usecase"
)

// Version is reported by the MCP server and the CLI
const Version = "1.0.0"

// imageCache is a CacheRepository that holds resources
type imageCache interface {
	domain.CacheRepository
	Close() error
}

// App holds the assembled components
type App struct {
	Config  *config.Config
	Metrics *metrics.Metrics
	Catalog *cache.CatalogCache
	Search  *usecase.ShoeSearchService
	MCP     *mcpDelivery.Server

	imageCache imageCache
}

// New builds every component from cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}

	m := metrics.New()

	catalogClient := shopify.NewClient(shopify.ClientConfig{
		BaseURL:      cfg.Catalog.BaseURL,
		ProductsPath: cfg.Catalog.ProductsPath,
		PageLimit:    cfg.Catalog.PageLimit,
		Timeout:      cfg.Catalog.Timeout,
		MaxRetries:   cfg.Catalog.MaxRetries,
		PerMinute:    cfg.RateLimit.Catalog,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		catalogClient.SetDebug(true)
		log.Printf("Catalog client debug mode enabled")
	}

	catalog := cache.NewCatalogCache(catalogClient, cfg.Cache.CatalogTTL, cache.WithRefreshObserver(m))
	log.Printf("Catalog: %s%s (ttl %s)", cfg.Catalog.BaseURL, cfg.Catalog.ProductsPath, cfg.Cache.CatalogTTL)

	images := newImageCache(ctx, cfg.Cache)
	fetcher := image.NewFetcher(image.Config{
		Width:    cfg.Image.Width,
		Format:   cfg.Image.Format,
		Timeout:  cfg.Image.Timeout,
		MaxBytes: cfg.Image.MaxBytes,
		TTL:      cfg.Cache.ImageTTL,
	}, images, m)

	search := usecase.NewShoeSearchService(catalog, fetcher, m, usecase.ShoeSearchServiceConfig{
		StoreURL:           cfg.Catalog.BaseURL,
		MaxResults:         cfg.Search.MaxResults,
		ImageConcurrency:   cfg.Search.ImageConcurrency,
		EnableDebugLogging: cfg.Search.DebugLogging,
	})

	log.Printf("Search: max results=%d, image concurrency=%d, debug=%v",
		cfg.Search.MaxResults, cfg.Search.ImageConcurrency, cfg.Search.DebugLogging)

	return &App{
		Config:     cfg,
		Metrics:    m,
		Catalog:    catalog,
		Search:     search,
		MCP:        mcpDelivery.NewServer(cfg.MCP.Name, Version, search),
		imageCache: images,
	}, nil
}

// newImageCache connects to Redis when configured, falling back to memory
func newImageCache(ctx context.Context, cfg config.CacheConfig) imageCache {
	if cfg.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err == nil {
			log.Printf("Image cache: redis (ttl %s)", cfg.ImageTTL)
			return redisCache
		}
		log.Printf("WARNING: Redis unavailable (%v), using in-memory image cache", err)
	}

	log.Printf("Image cache: memory (ttl %s)", cfg.ImageTTL)
	return cache.NewMemoryCache()
}

// Router returns the HTTP router, mounting the MCP endpoint when enabled
func (a *App) Router() *gin.Engine {
	deps := httpDelivery.HandlerDeps{
		Search:  a.Search,
		Catalog: a.Catalog,
		Metrics: a.Metrics.Handler(),
	}
	if a.Config.MCP.Enabled {
		deps.MCP = a.MCP.HTTPHandler()
	}

	return httpDelivery.SetupRouter(a.Config, httpDelivery.NewHandler(deps))
}

// Close releases the image cache
func (a *App) Close() error {
	if a.imageCache == nil {
		return nil
	}
	return a.imageCache.Close()
}
