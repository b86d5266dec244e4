// Package cache stores rendered projection responses keyed by the request
// that produced them.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

const (
	// BackendMemory keeps entries in process.
	BackendMemory = "memory"
	// BackendRedis keeps entries in a shared redis instance.
	BackendRedis = "redis"
	// BackendNone disables caching.
	BackendNone = "none"
)

// CacheRepository is a key/value store with per-entry expiry.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key derives a cache key from a namespace and the canonical request body.
func Key(namespace string, payload []byte) string {
	return namespace + ":" + strconv.FormatUint(xxhash.Sum64(payload), 16)
}

// New returns the repository for the named backend. A nil repository with a
// nil error means caching is disabled.
func New(backend, address string, logger *zap.Logger) (CacheRepository, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryCache(), nil
	case BackendRedis:
		if address == "" {
			return nil, fmt.Errorf("redis cache backend requires an address")
		}
		return NewRedisCache(address, logger), nil
	case BackendNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}
