// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Provides a process-local snapshot store with TTL support and periodic cleanup

package memory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"subfeed-api/pkg/config"
)

// ErrKeyNotFound is returned for missing or expired keys
var ErrKeyNotFound = errors.New("key not found")

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache instance whose entries never
// expire unless a TTL is given
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

// NewMemoryCacheFromConfig creates a cache using the configured default
// expiration and cleanup interval
func NewMemoryCacheFromConfig(cfg config.MemoryConfig) *MemoryCache {
	expiration := gocache.NoExpiration
	if cfg.DefaultExpiration > 0 {
		expiration = time.Duration(cfg.DefaultExpiration) * time.Second
	}
	cleanup := time.Duration(cfg.CleanupInterval) * time.Second
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &MemoryCache{items: gocache.New(expiration, cleanup)}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.items.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}

	stored, ok := value.([]byte)
	if !ok {
		return nil, ErrKeyNotFound
	}

	// Return a copy of the value
	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a value in the cache with the given TTL. A zero TTL uses the
// cache's default expiration.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	expiration := gocache.DefaultExpiration
	if ttl > 0 {
		expiration = ttl
	}
	c.items.Set(key, valueCopy, expiration)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.items.Delete(key)
	return nil
}

// Len returns the number of stored items, including expired ones not yet purged
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
