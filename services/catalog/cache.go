package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache remembers analyzed resources between requests. A miss is a
// nil byte slice with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type NopCache struct{}

func (NopCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, nil
}

func (NopCache) Set(ctx context.Context, key string, value []byte) error {
	return nil
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// DefaultCacheTTL keeps catalog records for an hour, listings churn
// slowly enough for that.
const DefaultCacheTTL = time.Hour

func NewRedisCache(client *redis.Client, ttl time.Duration) RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return RedisCache{client: client, ttl: ttl}
}

func (c RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

func cacheKey(action string, parts ...any) string {
	key := "catalog:" + action
	for _, part := range parts {
		key += fmt.Sprintf(":%v", part)
	}
	return key
}

// cached wraps a fetch with a read-through cache. Cache failures are
// logged and treated as misses, the scrape must not depend on redis
// being up.
func cached[T any](ctx context.Context, cache Cache, key string, fetch func() (T, error)) (T, error) {
	var zero T

	hit, err := cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "cache read failed", "key", key, "err", err)
	} else if hit != nil {
		var value T
		if err := json.Unmarshal(hit, &value); err == nil {
			return value, nil
		}
		slog.WarnContext(ctx, "discarding unreadable cache entry", "key", key)
	}

	value, err := fetch()
	if err != nil {
		return zero, err
	}

	encoded, err := json.Marshal(value)
	if err == nil {
		if err := cache.Set(ctx, key, encoded); err != nil {
			slog.WarnContext(ctx, "cache write failed", "key", key, "err", err)
		}
	}
	return value, nil
}
