package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftmarine/tidecast/internal/config"
	"github.com/driftmarine/tidecast/internal/models"
)

// memStore is a Store with injectable failures, standing in for either tier.
type memStore struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	sets    int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	data, ok := s.entries[key]
	return data, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

func (s *memStore) Purge(_ context.Context, match string) error {
	for key := range s.entries {
		if strings.Contains(key, match) {
			delete(s.entries, key)
		}
	}
	return nil
}

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		ForecastLRUSize:   10,
		PromoteTTLMinutes: 15,
		TideTTLHours:      12,
	}
}

func TestTieredCachePrimaryHit(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	primary.entries["key"] = []byte("from-primary")
	secondary.entries["key"] = []byte("from-secondary")

	c := NewTieredCache(primary, secondary, testCacheConfig())

	data, found := c.Get(context.Background(), "key")
	require.True(t, found)
	assert.Equal(t, []byte("from-primary"), data)
}

func TestTieredCacheSecondaryHitPromotes(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	secondary.entries["key"] = []byte("from-secondary")

	c := NewTieredCache(primary, secondary, testCacheConfig())

	data, found := c.Get(context.Background(), "key")
	require.True(t, found)
	assert.Equal(t, []byte("from-secondary"), data)
	assert.Equal(t, []byte("from-secondary"), primary.entries["key"], "secondary hit should be promoted")
}

func TestTieredCacheMiss(t *testing.T) {
	c := NewTieredCache(newMemStore(), newMemStore(), testCacheConfig())

	_, found := c.Get(context.Background(), "key")
	assert.False(t, found)
}

func TestTieredCachePrimaryErrorDegradesToSecondary(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	primary.getErr = errors.New("connection refused")
	secondary.entries["key"] = []byte("from-secondary")

	c := NewTieredCache(primary, secondary, testCacheConfig())

	data, found := c.Get(context.Background(), "key")
	require.True(t, found, "primary failure must degrade, not miss")
	assert.Equal(t, []byte("from-secondary"), data)
}

func TestTieredCacheBothTiersFailingReadsAsMiss(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	primary.getErr = errors.New("primary down")
	secondary.getErr = errors.New("secondary down")

	c := NewTieredCache(primary, secondary, testCacheConfig())

	_, found := c.Get(context.Background(), "key")
	assert.False(t, found)
}

func TestTieredCacheSetWritesBothTiers(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	c := NewTieredCache(primary, secondary, testCacheConfig())

	require.NoError(t, c.Set(context.Background(), "key", []byte("payload"), time.Minute))
	assert.Equal(t, []byte("payload"), primary.entries["key"])
	assert.Equal(t, []byte("payload"), secondary.entries["key"])
}

func TestTieredCacheSetPartialFailureSucceeds(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	primary.setErr = errors.New("primary down")

	c := NewTieredCache(primary, secondary, testCacheConfig())

	require.NoError(t, c.Set(context.Background(), "key", []byte("payload"), time.Minute))
	assert.Equal(t, []byte("payload"), secondary.entries["key"])
}

func TestTieredCacheSetTotalFailureErrors(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	primary.setErr = errors.New("primary down")
	secondary.setErr = errors.New("secondary down")

	c := NewTieredCache(primary, secondary, testCacheConfig())

	assert.Error(t, c.Set(context.Background(), "key", []byte("payload"), time.Minute))
}

func TestTieredCacheSingleTier(t *testing.T) {
	primary := newMemStore()
	c := NewTieredCache(primary, nil, testCacheConfig())

	require.NoError(t, c.Set(context.Background(), "key", []byte("payload"), time.Minute))
	data, found := c.Get(context.Background(), "key")
	require.True(t, found)
	assert.Equal(t, []byte("payload"), data)
}

func TestTieredCacheInvalidate(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	c := NewTieredCache(primary, secondary, testCacheConfig())

	require.NoError(t, c.Set(context.Background(), "key", []byte("payload"), time.Minute))
	require.NoError(t, c.Invalidate(context.Background(), "key"))

	_, found := c.Get(context.Background(), "key")
	assert.False(t, found)
}

func TestTieredCacheInvalidateLocation(t *testing.T) {
	primary, secondary := newMemStore(), newMemStore()
	c := NewTieredCache(primary, secondary, testCacheConfig())

	loc := models.Location{Latitude: 7.6, Longitude: 98.4}
	other := models.Location{Latitude: 47.6, Longitude: -122.3}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, ForecastKey(loc, 7), []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, Key(DataTypeMarine, loc), []byte("b"), time.Minute))
	require.NoError(t, c.Set(ctx, ForecastKey(other, 7), []byte("c"), time.Minute))

	require.NoError(t, c.InvalidateLocation(ctx, loc))

	_, found := c.Get(ctx, ForecastKey(loc, 7))
	assert.False(t, found)
	_, found = c.Get(ctx, Key(DataTypeMarine, loc))
	assert.False(t, found)
	_, found = c.Get(ctx, ForecastKey(other, 7))
	assert.True(t, found)
}
