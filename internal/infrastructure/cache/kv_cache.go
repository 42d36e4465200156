package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KVCache stores opaque values with a TTL. Callers serialise their own values.
type KVCache interface {
	// Get returns the value and true on a hit
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisKVCache implements KVCache on Redis
type RedisKVCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisKVCache creates a Redis backed cache under the given key prefix
func NewRedisKVCache(client redis.UniversalClient, keyPrefix string) *RedisKVCache {
	return &RedisKVCache{client: client, keyPrefix: keyPrefix}
}

// Get reads a key
func (c *RedisKVCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return b, true, nil
}

// Set writes a key with a TTL
func (c *RedisKVCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes keys
func (c *RedisKVCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.keyPrefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

var _ KVCache = (*RedisKVCache)(nil)

type kvEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e kvEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryKVCache implements KVCache with a map. Expired entries are dropped on read.
type InMemoryKVCache struct {
	mu      sync.RWMutex
	entries map[string]kvEntry
}

// NewInMemoryKVCache creates an empty in-memory cache
func NewInMemoryKVCache() *InMemoryKVCache {
	return &InMemoryKVCache{entries: make(map[string]kvEntry)}
}

// Get reads a key
func (c *InMemoryKVCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.isExpired(time.Now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set writes a key with a TTL
func (c *InMemoryKVCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.mu.Lock()
	c.entries[key] = kvEntry{value: stored, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Delete removes keys
func (c *InMemoryKVCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

var _ KVCache = (*InMemoryKVCache)(nil)
