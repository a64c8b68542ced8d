package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUStoreRoundTrip(t *testing.T) {
	store, err := NewLRUStore(10)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tides:7.600:98.400:7d", []byte("payload"), time.Minute))

	data, found, err := store.Get(ctx, "tides:7.600:98.400:7d")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("payload"), data)

	_, found, err = store.Get(ctx, "tides:0.000:0.000:7d")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLRUStoreExpiry(t *testing.T) {
	store, err := NewLRUStore(10)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", []byte("payload"), 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	_, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found, "expired entries must read as misses")
}

func TestLRUStoreCopiesValue(t *testing.T) {
	store, err := NewLRUStore(10)
	require.NoError(t, err)
	ctx := context.Background()

	value := []byte("payload")
	require.NoError(t, store.Set(ctx, "key", value, time.Minute))
	value[0] = 'X'

	data, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("payload"), data)
}

func TestLRUStoreDelete(t *testing.T) {
	store, err := NewLRUStore(10)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", []byte("payload"), time.Minute))
	require.NoError(t, store.Delete(ctx, "key"))

	_, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLRUStorePurge(t *testing.T) {
	store, err := NewLRUStore(10)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tides:7.600:98.400:7d", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "marine:7.600:98.400", []byte("b"), time.Minute))
	require.NoError(t, store.Set(ctx, "tides:47.600:-122.300:7d", []byte("c"), time.Minute))

	require.NoError(t, store.Purge(ctx, ":7.600:98.400"))

	_, found, _ := store.Get(ctx, "tides:7.600:98.400:7d")
	assert.False(t, found)
	_, found, _ = store.Get(ctx, "marine:7.600:98.400")
	assert.False(t, found)
	_, found, _ = store.Get(ctx, "tides:47.600:-122.300:7d")
	assert.True(t, found, "other locations must survive the purge")
}

func TestLRUStoreEvictsAtCapacity(t *testing.T) {
	store, err := NewLRUStore(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, store.Set(ctx, "c", []byte("3"), time.Minute))

	_, found, _ := store.Get(ctx, "a")
	assert.False(t, found, "oldest entry should be evicted")
	_, found, _ = store.Get(ctx, "c")
	assert.True(t, found)
}
