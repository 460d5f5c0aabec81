package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by Cache.Get for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the subset of Redis the catalogue needs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache adapts a go-redis client to Cache.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

func servicesKey(businessID string) string   { return "catalog:" + businessID + ":services" }
func workConfigKey(businessID string) string { return "catalog:" + businessID + ":work-config" }

// cached serves key from the cache, falling back to load. Cache failures
// are logged and never fail the read.
func cached[T any](ctx context.Context, s *DefaultCatalogService, key string, load func() (T, error)) (T, error) {
	if s.Cache == nil {
		return load()
	}
	log := s.logger().With(zap.String("key", key))

	if b, err := s.Cache.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		log.Warn("discarding undecodable cache entry")
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Warn("catalog cache read failed", zap.Error(err))
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if b, err := json.Marshal(v); err == nil {
		if err := s.Cache.Set(ctx, key, b, s.ttl()); err != nil {
			log.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return v, nil
}

func (s *DefaultCatalogService) ttl() time.Duration {
	if s.CacheTTL > 0 {
		return s.CacheTTL
	}
	return 5 * time.Minute
}

func (s *DefaultCatalogService) invalidate(ctx context.Context, keys ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, keys...); err != nil {
		s.logger().Warn("catalog cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
