package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tienditalabs/tiendita-backend/pkg/db/models"
)

type activeLister interface {
	ListActiveUnpaged(ctx context.Context) ([]models.Product, error)
}

// Cache holds the last good storefront snapshot. A failed refresh keeps the
// previous products visible and records the error instead of blanking the
// shop window.
type Cache struct {
	loader activeLister

	mu          sync.RWMutex
	products    []models.Product
	refreshedAt time.Time
	lastError   string
	loading     bool
	loaded      bool
}

// CacheSnapshot is the read-side view of the cache state.
type CacheSnapshot struct {
	Products    []models.Product
	RefreshedAt time.Time
	LastError   string
	Loading     bool
	Loaded      bool
}

// NewCache builds an empty snapshot cache.
func NewCache(loader activeLister) (*Cache, error) {
	if loader == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &Cache{loader: loader}, nil
}

// Refresh reloads the snapshot. On failure the previous snapshot survives.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	products, err := c.loader.ListActiveUnpaged(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.lastError = err.Error()
		return err
	}
	c.products = products
	c.refreshedAt = time.Now().UTC()
	c.lastError = ""
	c.loaded = true
	return nil
}

// Snapshot returns the current cache state.
func (c *Cache) Snapshot() CacheSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheSnapshot{
		Products:    append([]models.Product(nil), c.products...),
		RefreshedAt: c.refreshedAt,
		LastError:   c.lastError,
		Loading:     c.loading,
		Loaded:      c.loaded,
	}
}

// RunRefresher refreshes the snapshot on the given interval until the
// context ends. The first refresh happens immediately.
func (c *Cache) RunRefresher(ctx context.Context, interval time.Duration, onError func(error)) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if err := c.Refresh(ctx); err != nil && onError != nil {
		onError(err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
