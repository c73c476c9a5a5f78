package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisService implements CacheService using redis
type RedisService struct {
	client *redis.Client
}

// NewRedisService creates a new redis cache service
func NewRedisService(addr string, db int) *RedisService {
	return NewRedisServiceFromClient(redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	}))
}

// NewRedisServiceFromClient wraps an existing redis client
func NewRedisServiceFromClient(client *redis.Client) *RedisService {
	return &RedisService{client: client}
}

// Client exposes the underlying redis client so it can be shared
func (r *RedisService) Client() *redis.Client {
	return r.client
}

// Get retrieves a value from redis
func (r *RedisService) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a value in redis with an expiration time
func (r *RedisService) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Delete removes a value from redis
func (r *RedisService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Ping checks the redis connection
func (r *RedisService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the redis connection
func (r *RedisService) Close() error {
	return r.client.Close()
}
