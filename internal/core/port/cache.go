package port

import (
	"context"
	"time"
)

// CacheRepository is the key/value store behind sessions. Redis in
// production, an in-process cache when no REDIS_URL is configured.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
