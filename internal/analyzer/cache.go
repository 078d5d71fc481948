package analyzer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueryCache memoizes a term's search results behind a term-scoped key.
// Results are cheap to recompute but Search is a common read path, so a
// cache hit avoids re-walking the schedule on repeated identical queries.
type QueryCache interface {
	Get(ctx context.Context, key string) (SearchResult, bool, error)
	Set(ctx context.Context, key string, result SearchResult, ttl time.Duration) error
}

// RedisQueryCache is a QueryCache backed by the teacher's redis client.
type RedisQueryCache struct {
	client *redis.Client
	prefix string
}

// NewRedisQueryCache wraps a redis client for analyzer search memoization.
// prefix is prepended to every key this cache reads or writes; keeping
// terms apart is up to the keys the caller passes in.
func NewRedisQueryCache(client *redis.Client, prefix string) *RedisQueryCache {
	return &RedisQueryCache{client: client, prefix: prefix}
}

func (c *RedisQueryCache) Get(ctx context.Context, key string) (SearchResult, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return SearchResult{}, false, nil
	}
	if err != nil {
		return SearchResult{}, false, err
	}
	var result SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return SearchResult{}, false, err
	}
	return result, true, nil
}

func (c *RedisQueryCache) Set(ctx context.Context, key string, result SearchResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, raw, ttl).Err()
}

// CachedSearch wraps Search with a QueryCache, keyed on the raw query string.
func CachedSearch(ctx context.Context, a *Analyzer, cache QueryCache, query string, ttl time.Duration) (SearchResult, error) {
	if cached, ok, err := cache.Get(ctx, query); err != nil {
		return SearchResult{}, err
	} else if ok {
		return cached, nil
	}
	result := a.Search(query)
	if err := cache.Set(ctx, query, result, ttl); err != nil {
		return result, err
	}
	return result, nil
}
