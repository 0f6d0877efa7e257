package ports

import (
	"context"
	"time"
)

// Cache is the key/value accelerator in front of read paths. It is never
// a source of truth: every implementation must be safe to discard at any
// moment with only a latency cost.
//
// Get reports (found, error); a miss is (false, nil). Implementations
// marshal values as JSON so any serializable type can be cached.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// NoopCache is the implementation used when no cache backend is
// configured or reachable. Call sites never branch on availability;
// they always talk to a Cache.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Get(ctx context.Context, key string, dest any) (bool, error) { return false, nil }

func (NoopCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (NoopCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (NoopCache) DeletePattern(ctx context.Context, pattern string) (int64, error) { return 0, nil }

func (NoopCache) Ping(ctx context.Context) error { return nil }

func (NoopCache) Close() error { return nil }
