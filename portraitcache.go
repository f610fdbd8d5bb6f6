package charsheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// PortraitCache stores normalized gallery portraits by gallery key.
type PortraitCache interface {
	Get(ctx context.Context, key string) (Portrait, bool, error)
	Set(ctx context.Context, key string, p Portrait) error
}

// cacheKey scopes entries by output size so a size change never serves
// stale renditions.
func cacheKey(key string) string {
	return fmt.Sprintf("charsheet:portrait:%d:%s", PortraitSize, key)
}

// MemoryPortraitCache is an in-process PortraitCache with expiry.
type MemoryPortraitCache struct {
	c *cache.Cache
}

// NewMemoryPortraitCache creates a cache whose entries live for ttl.
func NewMemoryPortraitCache(ttl time.Duration) *MemoryPortraitCache {
	return &MemoryPortraitCache{c: cache.New(ttl, 2*ttl)}
}

// Get implements PortraitCache.
func (m *MemoryPortraitCache) Get(_ context.Context, key string) (Portrait, bool, error) {
	v, ok := m.c.Get(cacheKey(key))
	if !ok {
		return Portrait{}, false, nil
	}
	return v.(Portrait), true, nil
}

// Set implements PortraitCache.
func (m *MemoryPortraitCache) Set(_ context.Context, key string, p Portrait) error {
	m.c.Set(cacheKey(key), p, cache.DefaultExpiration)
	return nil
}

// RedisPortraitCache shares normalized portraits between instances.
type RedisPortraitCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPortraitCache connects to the redis:// URL u.
func NewRedisPortraitCache(u string, ttl time.Duration) (*RedisPortraitCache, error) {
	opts, err := redis.ParseURL(u)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisPortraitCacheFromClient(redis.NewClient(opts), ttl), nil
}

// NewRedisPortraitCacheFromClient wraps an existing client.
func NewRedisPortraitCacheFromClient(client *redis.Client, ttl time.Duration) *RedisPortraitCache {
	return &RedisPortraitCache{client: client, ttl: ttl}
}

// Get implements PortraitCache.
func (r *RedisPortraitCache) Get(ctx context.Context, key string) (Portrait, bool, error) {
	v, err := r.client.Get(ctx, cacheKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return Portrait{}, false, nil
	}
	if err != nil {
		return Portrait{}, false, err
	}
	return Portrait{Base64: v}, true, nil
}

// Set implements PortraitCache.
func (r *RedisPortraitCache) Set(ctx context.Context, key string, p Portrait) error {
	return r.client.Set(ctx, cacheKey(key), p.Base64, r.ttl).Err()
}

// Close closes the underlying client.
func (r *RedisPortraitCache) Close() error {
	return r.client.Close()
}
