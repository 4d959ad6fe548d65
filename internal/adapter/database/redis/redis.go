package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"todoapp/internal/core/port"
)

type redisRepository struct {
	client *redis.Client
}

// New connects to redis and returns it as a cache repository. Sessions
// live here when REDIS_URL is configured.
func New(ctx context.Context, url string) (port.CacheRepository, error) {
	opts, err := redis.ParseURL(url)

	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &redisRepository{client: client}, nil
}

func (r *redisRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return value, nil
}

func (r *redisRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisRepository) Close() error {
	return r.client.Close()
}
