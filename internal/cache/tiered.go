package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/driftmarine/tidecast/internal/config"
	"github.com/driftmarine/tidecast/internal/metrics"
	"github.com/driftmarine/tidecast/internal/models"
)

const (
	tierPrimary   = "primary"
	tierSecondary = "secondary"
)

// TieredCache coordinates a primary low-latency tier and a secondary
// durable tier, cache-aside. A read tries primary then secondary,
// promoting secondary hits back into primary; a write goes to both.
// Losing the primary tier degrades latency, never correctness: tier
// failures are counted, logged, and otherwise absorbed.
type TieredCache struct {
	primary    Store
	secondary  Store
	promoteTTL time.Duration
}

// NewTieredCache composes the two tiers. Either store may be nil, leaving
// the cache running on the remaining tier alone.
func NewTieredCache(primary, secondary Store, cacheConfig *config.CacheConfig) *TieredCache {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &TieredCache{
		primary:    primary,
		secondary:  secondary,
		promoteTTL: cacheConfig.GetPromoteTTL(),
	}
}

// Get returns the cached value for key, or found=false. Tier failures are
// treated as misses on that tier.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.primary != nil {
		data, found, err := c.primary.Get(ctx, key)
		switch {
		case err != nil:
			metrics.IncCacheError(tierPrimary)
			log.Warn().Err(err).Str("key", key).Msg("Primary cache tier unavailable, degrading to secondary")
		case found:
			metrics.IncCacheHit(tierPrimary)
			return data, true
		default:
			metrics.IncCacheMiss(tierPrimary)
		}
	}

	if c.secondary != nil {
		data, found, err := c.secondary.Get(ctx, key)
		switch {
		case err != nil:
			metrics.IncCacheError(tierSecondary)
			log.Warn().Err(err).Str("key", key).Msg("Secondary cache tier unavailable, treating as miss")
		case found:
			metrics.IncCacheHit(tierSecondary)
			c.promote(ctx, key, data)
			return data, true
		default:
			metrics.IncCacheMiss(tierSecondary)
		}
	}

	return nil, false
}

func (c *TieredCache) promote(ctx context.Context, key string, data []byte) {
	if c.primary == nil {
		return
	}
	if err := c.primary.Set(ctx, key, data, c.promoteTTL); err != nil {
		metrics.IncCacheError(tierPrimary)
		log.Debug().Err(err).Str("key", key).Msg("Promoting entry into primary tier failed")
	}
}

// Set writes the value through both tiers. It returns an error only when
// every configured tier rejected the write.
func (c *TieredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var primaryErr, secondaryErr error

	if c.primary != nil {
		if primaryErr = c.primary.Set(ctx, key, value, ttl); primaryErr != nil {
			metrics.IncCacheError(tierPrimary)
			log.Warn().Err(primaryErr).Str("key", key).Msg("Primary cache tier write failed")
		}
	}
	if c.secondary != nil {
		if secondaryErr = c.secondary.Set(ctx, key, value, ttl); secondaryErr != nil {
			metrics.IncCacheError(tierSecondary)
			log.Warn().Err(secondaryErr).Str("key", key).Msg("Secondary cache tier write failed")
		}
	}

	if c.wroteNothing(primaryErr, secondaryErr) {
		return errors.Join(primaryErr, secondaryErr)
	}
	return nil
}

func (c *TieredCache) wroteNothing(primaryErr, secondaryErr error) bool {
	primaryFailed := c.primary == nil || primaryErr != nil
	secondaryFailed := c.secondary == nil || secondaryErr != nil
	return primaryFailed && secondaryFailed
}

// Invalidate removes key from both tiers.
func (c *TieredCache) Invalidate(ctx context.Context, key string) error {
	var errs []error
	if c.primary != nil {
		if err := c.primary.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if c.secondary != nil {
		if err := c.secondary.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InvalidateLocation purges every cached entry for a quantized location
// across all data types and windows.
func (c *TieredCache) InvalidateLocation(ctx context.Context, loc models.Location) error {
	match := LocationMatch(loc)
	var errs []error
	if c.primary != nil {
		if err := c.primary.Purge(ctx, match); err != nil {
			errs = append(errs, err)
		}
	}
	if c.secondary != nil {
		if err := c.secondary.Purge(ctx, match); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
