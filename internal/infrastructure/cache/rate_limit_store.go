package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitStore counts hits per key inside a fixed window
type RateLimitStore interface {
	// Hit records one request for key and returns the count in the current
	// window together with the time the window resets.
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// RedisRateLimitStore shares counters across instances through Redis
type RedisRateLimitStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisRateLimitStore creates a Redis backed rate limit store
func NewRedisRateLimitStore(client redis.UniversalClient) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client, keyPrefix: "storefront:ratelimit:"}
}

// Hit increments the key and starts its expiry on the first hit of a window
func (s *RedisRateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	k := s.keyPrefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, window)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to record rate limit hit: %w", err)
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = window
	}
	return incr.Val(), time.Now().Add(remaining), nil
}

var _ RateLimitStore = (*RedisRateLimitStore)(nil)

type window struct {
	count   int64
	resetAt time.Time
}

// InMemoryRateLimitStore keeps counters in process memory
type InMemoryRateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewInMemoryRateLimitStore creates an in-memory rate limit store
func NewInMemoryRateLimitStore() *InMemoryRateLimitStore {
	return &InMemoryRateLimitStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Hit increments the counter for key, starting a new window when the old one has passed
func (s *InMemoryRateLimitStore) Hit(_ context.Context, key string, d time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		if len(s.windows) > 10000 {
			s.sweep(now)
		}
		w = &window{resetAt: now.Add(d)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt, nil
}

func (s *InMemoryRateLimitStore) sweep(now time.Time) {
	for k, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, k)
		}
	}
}

var _ RateLimitStore = (*InMemoryRateLimitStore)(nil)
