package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLSession caps how long a resolved session stays cached
const TTLSession = 5 * time.Minute

// PrefixSession namespaces resolved session tokens
const PrefixSession = "session:"

// ErrMiss is returned by Get when the key is absent
var ErrMiss = errors.New("cache miss")

// Service Redis cache interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// redisCache Redis-backed cache
type redisCache struct {
	client *redis.Client
}

// NewService creates a cache backed by client
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// Get decodes the JSON value stored at key into dest
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores value as JSON with ttl
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes keys
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
