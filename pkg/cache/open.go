package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names a cache implementation.
type Backend string

const (
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendNone  Backend = "none"
)

// ParseBackend validates a backend name. Empty selects the file cache.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendFile:
		return BackendFile, nil
	case BackendRedis:
		return BackendRedis, nil
	case BackendNone, "off":
		return BackendNone, nil
	}
	return "", fmt.Errorf("unknown cache backend %q (must be file, redis or none)", s)
}

// Open returns the cache for a backend. dir is used by the file backend and
// redisURL by the redis backend.
func Open(ctx context.Context, backend Backend, dir, redisURL string) (Cache, error) {
	switch backend {
	case BackendFile, "":
		return NewFileCache(dir)
	case BackendRedis:
		if redisURL == "" {
			return nil, fmt.Errorf("redis cache backend needs a redis_url")
		}
		return NewRedisCache(ctx, redisURL)
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}
