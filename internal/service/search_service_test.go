package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/coursesched/internal/analyzer"
	"github.com/brightpath-edu/coursesched/internal/dto"
)

type fakeQueryCache struct {
	store map[string]analyzer.SearchResult
	sets  int
}

func newFakeQueryCache() *fakeQueryCache {
	return &fakeQueryCache{store: make(map[string]analyzer.SearchResult)}
}

func (f *fakeQueryCache) Get(ctx context.Context, key string) (analyzer.SearchResult, bool, error) {
	result, ok := f.store[key]
	return result, ok, nil
}

func (f *fakeQueryCache) Set(ctx context.Context, key string, result analyzer.SearchResult, ttl time.Duration) error {
	f.sets++
	f.store[key] = result
	return nil
}

func TestSearchReturnsNotFoundErrorWhenTermNeverSolved(t *testing.T) {
	schedules := NewScheduleService(nil, NewMetricsService())
	search := NewSearchService(schedules, nil, nil, NewMetricsService())

	_, err := search.Search(context.Background(), dto.SearchRequest{TermID: "unknown", Query: "CS101"})

	assert.Error(t, err)
}

func TestSearchFindsScheduledCourse(t *testing.T) {
	schedules := NewScheduleService(nil, NewMetricsService())
	_, err := schedules.Generate(context.Background(), feasibleRequest())
	require.NoError(t, err)

	search := NewSearchService(schedules, nil, nil, NewMetricsService())
	resp, err := search.Search(context.Background(), dto.SearchRequest{TermID: "fall-2026", Query: "CS101"})

	require.NoError(t, err)
	assert.True(t, resp.Found)
	assert.Contains(t, resp.Matches, "CS101")
}

func TestSearchCachesSeparatelyPerInstructorIgnoreFlags(t *testing.T) {
	schedules := NewScheduleService(nil, NewMetricsService())
	_, err := schedules.Generate(context.Background(), feasibleRequest())
	require.NoError(t, err)

	cache := newFakeQueryCache()
	search := NewSearchService(schedules, cache, nil, NewMetricsService())

	_, err = search.Search(context.Background(), dto.SearchRequest{
		TermID: "fall-2026", Query: "CS101", IgnoreInstructorBusySlots: false,
	})
	require.NoError(t, err)

	_, err = search.Search(context.Background(), dto.SearchRequest{
		TermID: "fall-2026", Query: "CS101", IgnoreInstructorBusySlots: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, cache.sets, "different ignore-flag combinations must not share a cache entry")
}

func TestSummaryListsEveryScheduledCourse(t *testing.T) {
	schedules := NewScheduleService(nil, NewMetricsService())
	_, err := schedules.Generate(context.Background(), feasibleRequest())
	require.NoError(t, err)

	search := NewSearchService(schedules, nil, nil, NewMetricsService())
	rows, err := search.Summary(context.Background(), "fall-2026")

	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
