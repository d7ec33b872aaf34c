package domain

import "errors"

var (
	// ErrCatalogFetch is returned when the upstream catalog endpoint fails or is unreachable
	ErrCatalogFetch = errors.New("catalog fetch failed")

	// ErrMalformedCatalog is returned when the catalog body cannot be decoded at all
	ErrMalformedCatalog = errors.New("malformed catalog data")

	// ErrImageFetch is returned when a product image cannot be retrieved
	ErrImageFetch = errors.New("image fetch failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
