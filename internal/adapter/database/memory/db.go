package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"todoapp/internal/core/port"
)

type memoryRepository struct {
	cache *gocache.Cache
}

// NewMemoryRepository is the in-process fallback cache used when no
// redis is configured, and in tests. Entries honor per-key TTLs.
func NewMemoryRepository() port.CacheRepository {
	return &memoryRepository{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (c *memoryRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

func (c *memoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.cache.Get(key)

	if !found {
		return nil, nil
	}

	return value.([]byte), nil
}

func (c *memoryRepository) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

func (c *memoryRepository) Close() error {
	return nil
}
