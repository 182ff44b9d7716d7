// Package redis provides a Redis implementation of the pricesource.Cache
// interface. Lists are stored as JSON blobs under a prefixed key with the
// caller's TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mihaimyh/gocheckout/pkg/checkout"
)

// Config holds Redis cache configuration.
type Config struct {
	// KeyPrefix is prepended to all Redis keys (default: "gocheckout:")
	KeyPrefix string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{KeyPrefix: "gocheckout:"}
}

// Cache implements pricesource.Cache using Redis.
type Cache struct {
	client redis.UniversalClient
	config Config
}

// New creates a new Redis cache adapter.
// The client can be *redis.Client, *redis.ClusterClient, or *redis.Ring.
func New(client redis.UniversalClient, config Config) (*Cache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "gocheckout:"
	}
	return &Cache{client: client, config: config}, nil
}

func (c *Cache) key(key string) string {
	return c.config.KeyPrefix + "prices:" + key
}

// Get implements pricesource.Cache.
func (c *Cache) Get(ctx context.Context, key string) ([]checkout.PricedProduct, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var products []checkout.PricedProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("corrupt price cache entry: %w", err)
	}
	return products, true, nil
}

// Set implements pricesource.Cache.
func (c *Cache) Set(ctx context.Context, key string, products []checkout.PricedProduct, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal price list: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
