package services

import (
	"context"
	"time"
)

// RateCache is a namespaced key/value cache with per-entry TTL.
// An expired entry is indistinguishable from a missing one.
type RateCache interface {
	// Get returns the value stored under key; ok is false when absent or expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key. A non-positive ttl selects the cache default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// ClearAll removes every key in the cache namespace.
	ClearAll(ctx context.Context) error

	// Has reports whether a live entry exists under key.
	Has(ctx context.Context, key string) (bool, error)
}
