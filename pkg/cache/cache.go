// Package cache stores rendered artifacts keyed by content hash.
//
// Rendering a tree is deterministic for a given tree, theme and set of
// render options, so the CLI and the HTTP server hash those inputs into a
// key and reuse earlier output. Three backends share the [Cache] interface:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: never stores anything (--no-cache)
//
// A miss is not an error: Get reports it through its bool result.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/kale/pkg/observability"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GetOrCompute returns the cached value for key, or runs compute and stores
// its result. keyType labels the lookup for observability hooks. A failing
// cache read falls through to compute; a failing write is returned along
// with the computed data.
func GetOrCompute(ctx context.Context, c Cache, keyType, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return data, err
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return data, nil
}
