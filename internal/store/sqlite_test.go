package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	cache, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	require.NoError(t, cache.Migrate(context.Background()))
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, found, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	want := CachedResult{Latitude: 53.3498, Longitude: -6.2603, Matched: true}
	require.NoError(t, cache.Put(ctx, "abc", want))

	got, found, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, *got)
}

func TestCacheStoresMisses(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "nowhere", CachedResult{Matched: false}))

	got, found, err := cache.Get(ctx, "nowhere")
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, got.Matched)
}

func TestCacheUpsert(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "k", CachedResult{Matched: false}))
	require.NoError(t, cache.Put(ctx, "k", CachedResult{Latitude: 53.2, Longitude: -6.1, Matched: true}))

	got, found, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.Matched)
	assert.InDelta(t, 53.2, got.Latitude, 1e-9)
}
