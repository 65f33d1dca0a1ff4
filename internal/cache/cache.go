// Package cache provides the feed-response cache used by the judge
// client. Values are opaque byte slices; keys name an endpoint plus its
// parameters.
package cache

import (
	"context"
	"time"
)

// Store is a TTL'd byte cache.
type Store interface {
	// Get returns the cached bytes for key, or ok=false on a miss or
	// expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool)

	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes key if present.
	Delete(ctx context.Context, key string)
}
