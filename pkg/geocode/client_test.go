package geocode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dublin-research/dublin-geo/internal/store"
)

// fakeProvider returns canned results per query and records call order.
type fakeProvider struct {
	results map[string]*Result
	calls   []string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Geocode(_ context.Context, address string) (*Result, error) {
	f.calls = append(f.calls, address)
	if r, ok := f.results[address]; ok {
		return r, nil
	}
	return &Result{Matched: false, Source: "fake"}, nil
}

// memCache is an in-memory store.GeocodeCache for tests.
type memCache struct {
	entries map[string]store.CachedResult
	puts    int
}

func newMemCache() *memCache { return &memCache{entries: map[string]store.CachedResult{}} }

func (m *memCache) Get(_ context.Context, key string) (*store.CachedResult, bool, error) {
	r, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (m *memCache) Put(_ context.Context, key string, result store.CachedResult) error {
	m.entries[key] = result
	m.puts++
	return nil
}

func (m *memCache) Migrate(context.Context) error { return nil }
func (m *memCache) Close() error                  { return nil }

func TestClientLookupCachesMatch(t *testing.T) {
	provider := &fakeProvider{results: map[string]*Result{
		"Main Street, Blanchardstown, Dublin, Ireland": {
			Latitude: 53.39, Longitude: -6.38, Matched: true, Source: "fake",
		},
	}}
	cache := newMemCache()
	client := NewClient(provider, cache, VariantPlanning)
	ctx := context.Background()

	got, err := client.Lookup(ctx, "Main Street, Blanchardstown")
	require.NoError(t, err)
	require.True(t, got.Matched)
	assert.Equal(t, "fake", got.Source)
	assert.Equal(t, 1, cache.puts)

	// Second lookup of the same raw address is served from cache.
	again, err := client.Lookup(ctx, "Main Street, Blanchardstown")
	require.NoError(t, err)
	require.True(t, again.Matched)
	assert.Equal(t, "cache", again.Source)
	assert.InDelta(t, 53.39, again.Latitude, 1e-9)
	assert.Len(t, provider.calls, 1)

	hits, misses, unmatched := client.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 0, unmatched)
}

func TestClientFallsBackThroughVariants(t *testing.T) {
	// Only the street-level fallback resolves.
	provider := &fakeProvider{results: map[string]*Result{
		"Dolphin Road, Dublin, Ireland": {
			Latitude: 53.33, Longitude: -6.29, Matched: true, Source: "fake",
		},
	}}
	client := NewClient(provider, newMemCache(), VariantPlanning)

	got, err := client.Lookup(context.Background(), "Dolphin Road, Drimnagh")
	require.NoError(t, err)
	require.True(t, got.Matched)
	assert.Greater(t, len(provider.calls), 1)
	assert.Equal(t, "Dolphin Road, Dublin, Ireland", provider.calls[len(provider.calls)-1])
}

func TestClientRejectsOutsideVerificationBox(t *testing.T) {
	// A confident match in Cork is a wrong-place result, not a match.
	provider := &fakeProvider{results: map[string]*Result{
		"Main Street, Blanchardstown, Dublin, Ireland": {
			Latitude: 51.89, Longitude: -8.47, Matched: true, Source: "fake",
		},
	}}
	cache := newMemCache()
	client := NewClient(provider, cache, VariantPlanning)

	got, err := client.Lookup(context.Background(), "Main Street, Blanchardstown")
	require.NoError(t, err)
	assert.False(t, got.Matched)

	// The miss is cached so the address is not retried.
	assert.Equal(t, 1, cache.puts)
	_, _, unmatched := client.Stats()
	assert.Equal(t, 1, unmatched)
}

func TestClientCachesMisses(t *testing.T) {
	provider := &fakeProvider{}
	cache := newMemCache()
	client := NewClient(provider, cache, VariantProperty)
	ctx := context.Background()

	got, err := client.Lookup(ctx, "COMPLETELY UNKNOWN PLACE")
	require.NoError(t, err)
	assert.False(t, got.Matched)
	callsAfterFirst := len(provider.calls)

	again, err := client.Lookup(ctx, "COMPLETELY UNKNOWN PLACE")
	require.NoError(t, err)
	assert.False(t, again.Matched)
	assert.Len(t, provider.calls, callsAfterFirst)
}

func TestClientEmptyAddress(t *testing.T) {
	provider := &fakeProvider{}
	client := NewClient(provider, nil, VariantProperty)

	got, err := client.Lookup(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, got.Matched)
	assert.Empty(t, provider.calls)
}
