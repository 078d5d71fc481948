package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	store map[string]SearchResult
	gets  int
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]SearchResult)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (SearchResult, bool, error) {
	f.gets++
	result, ok := f.store[key]
	return result, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, result SearchResult, ttl time.Duration) error {
	f.sets++
	f.store[key] = result
	return nil
}

func TestCachedSearchPopulatesOnMiss(t *testing.T) {
	bundle, schedule := testBundle()
	a := New(bundle, schedule)
	cache := newFakeCache()

	result, err := CachedSearch(context.Background(), a, cache, "CS101", time.Minute)

	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, 1, cache.sets)
}

func TestCachedSearchServesFromCacheOnHit(t *testing.T) {
	bundle, schedule := testBundle()
	a := New(bundle, schedule)
	cache := newFakeCache()

	_, err := CachedSearch(context.Background(), a, cache, "CS101", time.Minute)
	require.NoError(t, err)

	_, err = CachedSearch(context.Background(), a, cache, "CS101", time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.sets, "second call should hit cache, not recompute and re-store")
}
