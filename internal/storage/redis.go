package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "storefront:storage:"

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, scope, key string) (string, error) {
	v, err := r.client.Get(ctx, redisKey(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return v, nil
}

// Set stores the value without expiry; a persisted session lives until logout.
func (r *Redis) Set(ctx context.Context, scope, key, value string) error {
	if err := r.client.Set(ctx, redisKey(scope, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, scope, key string) error {
	if err := r.client.Del(ctx, redisKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func redisKey(scope, key string) string {
	return redisPrefix + scope + ":" + key
}
