// Package cache implements the tiered forecast cache: a low-latency primary
// store and a durable secondary store composed cache-aside. Tiers are plain
// Store values, independently testable and swappable.
package cache

import (
	"context"
	"time"
)

// Store is one cache tier: a string-keyed byte store with per-entry expiry.
type Store interface {
	// Get returns the value for key, or found=false on a miss. Expired
	// entries count as misses.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key if present.
	Delete(ctx context.Context, key string) error
	// Purge removes every key containing match.
	Purge(ctx context.Context, match string) error
}
