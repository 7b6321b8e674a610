package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Usmankh4/netflixclone/pkg/domain"
)

const railKeyPrefix = "netflixclone:rails:"

// RailCache caches homepage rails (featured, trending). A miss returns
// (nil, false, nil); callers fall back to the database and refill.
type RailCache interface {
	Get(ctx context.Context, rail string) ([]domain.Video, bool, error)
	Set(ctx context.Context, rail string, videos []domain.Video) error
	Invalidate(ctx context.Context, rails ...string) error
}

// RedisRailCache keeps rails in Redis as JSON arrays with TTL.
type RedisRailCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRailCache builds a Redis-backed rail cache.
func NewRedisRailCache(addr, password string, ttl time.Duration) *RedisRailCache {
	return &RedisRailCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// NewRedisRailCacheFromClient wraps an existing client. Used by tests.
func NewRedisRailCacheFromClient(client *redis.Client, ttl time.Duration) *RedisRailCache {
	return &RedisRailCache{client: client, ttl: ttl}
}

func (c *RedisRailCache) Get(ctx context.Context, rail string) ([]domain.Video, bool, error) {
	raw, err := c.client.Get(ctx, railKeyPrefix+rail).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var videos []domain.Video
	if err := json.Unmarshal(raw, &videos); err != nil {
		return nil, false, err
	}
	return videos, true, nil
}

func (c *RedisRailCache) Set(ctx context.Context, rail string, videos []domain.Video) error {
	raw, err := json.Marshal(videos)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, railKeyPrefix+rail, raw, c.ttl).Err()
}

func (c *RedisRailCache) Invalidate(ctx context.Context, rails ...string) error {
	if len(rails) == 0 {
		return nil
	}
	keys := make([]string, len(rails))
	for i, rail := range rails {
		keys[i] = railKeyPrefix + rail
	}
	err := c.client.Del(ctx, keys...).Err()
	if err != nil && err != redis.Nil {
		return err
	}
	return nil
}
