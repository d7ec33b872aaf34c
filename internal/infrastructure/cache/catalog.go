package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shoefinder/backend/internal/domain"
	"github.com/shoefinder/backend/internal/infrastructure/logger"
)

// DefaultCatalogTTL is the freshness window of a catalog snapshot
const DefaultCatalogTTL = 5 * time.Minute

const refreshKey = "catalog"

// RefreshObserver records catalog refresh attempts (metrics)
type RefreshObserver interface {
	ObserveRefresh(err error, products int, duration time.Duration)
}

// CatalogCache holds the most recent catalog snapshot and refreshes it when stale.
//
// A failed refresh is returned to the caller and leaves the previous snapshot in
// place but unserved; the next call tries again. Concurrent callers that find the
// snapshot stale share a single upstream fetch.
type CatalogCache struct {
	client   domain.CatalogClient
	ttl      time.Duration
	now      func() time.Time
	observer RefreshObserver

	mu       sync.RWMutex
	snapshot *domain.CatalogSnapshot
	stale    bool // set by Invalidate, cleared by the next successful refresh

	refreshGroup singleflight.Group
}

// CatalogCacheOption configures a CatalogCache
type CatalogCacheOption func(*CatalogCache)

// WithClock overrides the time source (tests)
func WithClock(now func() time.Time) CatalogCacheOption {
	return func(c *CatalogCache) { c.now = now }
}

// WithRefreshObserver reports every upstream refresh to o
func WithRefreshObserver(o RefreshObserver) CatalogCacheOption {
	return func(c *CatalogCache) { c.observer = o }
}

// NewCatalogCache creates an empty catalog cache in front of client
func NewCatalogCache(client domain.CatalogClient, ttl time.Duration, opts ...CatalogCacheOption) *CatalogCache {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}

	c := &CatalogCache{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Products returns the cached catalog, fetching a new snapshot first when there
// is none or the current one is at least ttl old.
func (c *CatalogCache) Products(ctx context.Context) ([]domain.CatalogProduct, error) {
	if snap := c.fresh(); snap != nil {
		logger.Dedup("[CATALOG] Serving cached snapshot (%d products)", len(snap.Products))
		return snap.Products, nil
	}

	// Shared fetch outlives any single caller's context.
	refreshCtx := context.WithoutCancel(ctx)
	ch := c.refreshGroup.DoChan(refreshKey, func() (interface{}, error) {
		return c.refresh(refreshCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.CatalogSnapshot).Products, nil
	}
}

// refresh fetches a new snapshot unless another caller just stored one
func (c *CatalogCache) refresh(ctx context.Context) (*domain.CatalogSnapshot, error) {
	if snap := c.fresh(); snap != nil {
		return snap, nil
	}

	start := time.Now()
	products, err := c.client.FetchAll(ctx)
	if c.observer != nil {
		c.observer.ObserveRefresh(err, len(products), time.Since(start))
	}
	if err != nil {
		log.Printf("[CATALOG] Refresh failed, keeping previous snapshot unserved: %v", err)
		return nil, err
	}

	snap := &domain.CatalogSnapshot{
		Products:  products,
		FetchedAt: c.now(),
	}

	c.mu.Lock()
	c.snapshot = snap
	c.stale = false
	c.mu.Unlock()

	log.Printf("[CATALOG] Refreshed snapshot with %d products", len(products))
	return snap, nil
}

// fresh returns the current snapshot if it is within the freshness window
func (c *CatalogCache) fresh() *domain.CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil || c.stale || c.snapshot.Age(c.now()) >= c.ttl {
		return nil
	}
	return c.snapshot
}

// Snapshot returns the last stored snapshot, fresh or not (nil before the first fetch)
func (c *CatalogCache) Snapshot() *domain.CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Invalidate marks the snapshot stale so the next call refetches. The data is
// kept, like any other stale snapshot, for inspection through Snapshot.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
}
