package domain

import (
	"context"
	"time"
)

// CatalogClient retrieves the full product listing from the upstream store
type CatalogClient interface {
	FetchAll(ctx context.Context) ([]CatalogProduct, error)
}

// CatalogRepository serves the current catalog, refreshing it when stale
type CatalogRepository interface {
	Products(ctx context.Context) ([]CatalogProduct, error)
}

// ImageFetcher turns an image reference into an embeddable data URI
type ImageFetcher interface {
	FetchDataURI(ctx context.Context, src string) (string, error)
}

// CacheRepository defines the interface for key/value caching with expiry
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
