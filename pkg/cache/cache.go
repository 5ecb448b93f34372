// Package cache provides pluggable byte caches for pipeline stages.
//
// Three backends ship: a file cache for local CLI runs, a Redis cache for
// shared deployments, and a null cache that disables caching entirely.
// Keys are opaque strings; [Keyer] derives stable keys from stage inputs
// so identical inputs hit identical entries across runs and hosts.
package cache

import (
	"context"
	"time"
)

// Cache stores raw bytes under string keys with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present; expired or corrupt entries count as absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
