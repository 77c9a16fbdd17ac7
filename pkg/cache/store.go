// Package cache provides the TTL key-value store backing the pricing
// service, with a Redis implementation and bulk prefix purge for the
// administrative clear-cache action.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// Store is the TTL key-value store contract the pricing service depends on.
// Implementations must tolerate concurrent callers; last-write-wins is
// acceptable since all writes for a key carry equivalent freshly fetched
// data.
type Store interface {
	// Get returns the value for key, or ErrCacheMiss if absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key with the given TTL, overwriting any
	// existing entry wholesale.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key sharing the prefix and returns the
	// number of keys deleted. Safe to call when nothing matches.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
