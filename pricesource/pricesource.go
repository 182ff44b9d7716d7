// Package pricesource provides checkout.PriceSource implementations and a
// caching decorator. The price list is owned by the consuming flow's cache:
// it is fetched once, replaced wholesale on refetch, and its order is
// preserved end to end.
package pricesource

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

// Cache stores a fetched price list under a key. Implementations live under
// cache/ (memory, redis).
type Cache interface {
	// Get returns the cached list and whether it was present
	Get(ctx context.Context, key string) ([]checkout.PricedProduct, bool, error)

	// Set stores the list with a TTL (0 = no expiration)
	Set(ctx context.Context, key string, products []checkout.PricedProduct, ttl time.Duration) error
}

// Static is a fixed in-memory price source, mainly for tests and examples.
type Static struct {
	products []checkout.PricedProduct
}

// NewStatic creates a price source returning the given list.
func NewStatic(products []checkout.PricedProduct) *Static {
	out := make([]checkout.PricedProduct, len(products))
	copy(out, products)
	return &Static{products: out}
}

// ListProducts returns a copy of the configured list, preserving order.
func (s *Static) ListProducts(_ context.Context) ([]checkout.PricedProduct, error) {
	out := make([]checkout.PricedProduct, len(s.products))
	copy(out, s.products)
	return out, nil
}

// CachedConfig configures the caching decorator.
type CachedConfig struct {
	// Upstream is the real price source (required)
	Upstream checkout.PriceSource

	// Cache holds fetched lists (required)
	Cache Cache

	// Key is the cache key for this flow's list (default "prices")
	Key string

	// TTL bounds how long a cached list is served (default 5m)
	TTL time.Duration

	// Logger defaults to NoopLogger
	Logger checkout.Logger
}

// Cached decorates a price source with a cache and collapses concurrent
// fetches for the same key onto a single upstream call. Cache failures
// degrade to the upstream rather than failing the fetch.
type Cached struct {
	upstream checkout.PriceSource
	cache    Cache
	key      string
	ttl      time.Duration
	logger   checkout.Logger
	group    singleflight.Group
}

// NewCached creates the caching decorator.
func NewCached(cfg CachedConfig) (*Cached, error) {
	if cfg.Upstream == nil || cfg.Cache == nil {
		return nil, checkout.ErrPriceSourceUnavailable
	}
	if cfg.Key == "" {
		cfg.Key = "prices"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = &checkout.NoopLogger{}
	}
	return &Cached{
		upstream: cfg.Upstream,
		cache:    cfg.Cache,
		key:      cfg.Key,
		ttl:      cfg.TTL,
		logger:   logger,
	}, nil
}

// ListProducts serves from cache when possible, otherwise fetches upstream
// exactly once per key regardless of concurrent callers.
func (c *Cached) ListProducts(ctx context.Context) ([]checkout.PricedProduct, error) {
	products, ok, err := c.cache.Get(ctx, c.key)
	if err != nil {
		c.logger.Warn("price cache read failed",
			checkout.Field{Key: "key", Value: c.key},
			checkout.Field{Key: "error", Value: err})
	} else if ok {
		return products, nil
	}

	v, err, _ := c.group.Do(c.key, func() (interface{}, error) {
		fetched, err := c.upstream.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, c.key, fetched, c.ttl); err != nil {
			c.logger.Warn("price cache write failed",
				checkout.Field{Key: "key", Value: c.key},
				checkout.Field{Key: "error", Value: err})
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]checkout.PricedProduct), nil
}
