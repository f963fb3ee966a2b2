package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter stores snapshots as plain string values in Redis.
// Snapshots have no TTL; an abandoned cart is cleaned up by explicit clear.
type RedisAdapter struct {
	client *redis.Client
}

// NewRedisAdapter wraps an existing Redis client.
func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// Load returns the snapshot stored at key.
func (r *RedisAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

// Save overwrites the snapshot stored at key.
func (r *RedisAdapter) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
