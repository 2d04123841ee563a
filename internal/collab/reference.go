package collab

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "collab:ref:"

// ReferenceCounter hands out a per-resource, monotonically increasing reference
// for every collaborative mutation. Next must be an atomic increment-and-fetch.
type ReferenceCounter interface {
	Next(ctx context.Context, resourceKey string) (int64, error)
}

// ResourceKey builds the counter key of a resource, e.g. ResourceKey("shoppingList", id)
func ResourceKey(kind, id string) string {
	return kind + ":" + id
}

// NewReferenceCounter returns a Redis-backed counter shared by every instance,
// or a process-local one when redisClient is nil.
func NewReferenceCounter(redisClient *redis.Client) ReferenceCounter {
	if redisClient == nil {
		return NewMemoryCounter()
	}
	return &redisCounter{client: redisClient}
}

type redisCounter struct {
	client *redis.Client
}

func (c *redisCounter) Next(ctx context.Context, resourceKey string) (int64, error) {
	return c.client.Incr(ctx, keyPrefix+resourceKey).Result()
}

// MemoryCounter is a process-local ReferenceCounter
type MemoryCounter struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryCounter constructor
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counters: make(map[string]int64)}
}

func (c *MemoryCounter) Next(ctx context.Context, resourceKey string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[resourceKey]++
	return c.counters[resourceKey], nil
}
