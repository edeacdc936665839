// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoValue marks an absent or expired repository entry.
var ErrNoValue = errors.New("session: no value")

// RedisStateRepository implements [StateRepository] on Redis.
type RedisStateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateRepository creates a Redis-backed [StateRepository].
// Every write refreshes the idle TTL, so active browsers never expire.
func NewRedisStateRepository(client *redis.Client, ttl time.Duration) *RedisStateRepository {
	return &RedisStateRepository{client: client, ttl: ttl}
}

/*
Get returns the value stored at key.

Returns:
  - string: Stored value
  - error: [ErrNoValue] if absent, or connectivity errors
*/
func (repository *RedisStateRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := repository.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoValue
		}
		return "", fmt.Errorf("redis_state_get_failed: %w", err)
	}
	return value, nil
}

/*
Set writes the value at key with the repository's idle TTL.
*/
func (repository *RedisStateRepository) Set(ctx context.Context, key, value string) error {
	if err := repository.client.Set(ctx, key, value, repository.ttl).Err(); err != nil {
		return fmt.Errorf("redis_state_set_failed: %w", err)
	}
	return nil
}

/*
Delete removes the value at key. Absent keys are not an error.
*/
func (repository *RedisStateRepository) Delete(ctx context.Context, key string) error {
	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_state_delete_failed: %w", err)
	}
	return nil
}

/*
GetDel atomically reads and removes the value at key.

Description: Maps straight onto Redis GETDEL, which is what makes flash
messages single-consumer even across concurrent requests.
*/
func (repository *RedisStateRepository) GetDel(ctx context.Context, key string) (string, error) {
	value, err := repository.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoValue
		}
		return "", fmt.Errorf("redis_state_getdel_failed: %w", err)
	}
	return value, nil
}
