package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis timeouts are kept short: a slow cache only costs a recomputation.
const (
	redisDialTimeout  = 500 * time.Millisecond
	redisReadTimeout  = 250 * time.Millisecond
	redisWriteTimeout = 250 * time.Millisecond
	redisMaxRetries   = 1
)

// RedisCache is a CacheRepository backed by redis, for sharing cached
// responses between server replicas.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects lazily to the redis server at addr.
func NewRedisCache(addr string, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisReadTimeout,
		WriteTimeout: redisWriteTimeout,
		MaxRetries:   redisMaxRetries,
	})
	return &RedisCache{
		client: rdb,
		logger: logger,
	}
}

// Get returns the stored value. Any redis error is treated as a miss.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Debug("redis lookup failed, treating as a miss",
				zap.String("op", "cache.RedisCache.Get"),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return nil, false
	}
	return val, true
}

// Set stores value under key with the given expiry.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Ping checks that the server is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
