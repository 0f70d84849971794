// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for byte-level key/value storage.
// Implementations can be Redis, in-memory, SQLite, or any other store.
// The channel cache uses it to mirror per-channel snapshots.
//
// Example usage:
//
//	store := someCache // implements Cache interface
//
//	// Store a snapshot
//	err := store.Set(ctx, "subscriptions:UC123", snapshot, 0)
//
//	// Retrieve a snapshot
//	data, err := store.Get(ctx, "subscriptions:UC123")
//	if err != nil {
//		// handle error or cache miss
//	}
//
//	// Delete a snapshot
//	err = store.Delete(ctx, "subscriptions:UC123")
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte or an error if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}
