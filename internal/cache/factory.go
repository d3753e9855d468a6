package cache

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/storefront/internal/config"
)

// FromConfig builds the cache selected by cache_backend. The memory backend
// lives as long as the process. A redis backend is pinged first; on failure the error is returned together with a NoopCache
// so callers can continue uncached.
func FromConfig(ctx context.Context) (Cache, error) {
	switch config.Get("cache_backend", config.CacheNone) {
	case config.CacheRedis:
		r := NewRedis(
			config.Get("redis_addr", "localhost:6379"),
			config.Get("redis_password", ""),
			config.GetInt("redis_db", 0),
		)
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return NewNoop(), fmt.Errorf("cache: redis ping: %w", err)
		}
		return r, nil
	case config.CacheMemory:
		return NewMemory(), nil
	default:
		return NewNoop(), nil
	}
}
