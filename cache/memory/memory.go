// Package memory provides an in-memory implementation of the
// pricesource.Cache interface. This implementation is primarily intended
// for testing and single-process deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

type entry struct {
	products  []checkout.PricedProduct
	expiresAt time.Time
}

// Cache implements pricesource.Cache using an in-memory map.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	// now is swappable for tests
	now func() time.Time
}

// New creates a new in-memory cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements pricesource.Cache.
func (c *Cache) Get(_ context.Context, key string) ([]checkout.PricedProduct, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	// Return a copy to prevent external mutations
	out := make([]checkout.PricedProduct, len(e.products))
	copy(out, e.products)
	return out, true, nil
}

// Set implements pricesource.Cache.
func (c *Cache) Set(_ context.Context, key string, products []checkout.PricedProduct, ttl time.Duration) error {
	stored := make([]checkout.PricedProduct, len(products))
	copy(stored, products)

	e := entry{products: stored}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}
