package cache

import (
	"context"

	"github.com/dripnest/storefront/internal/infrastructure/auth"
	"github.com/dripnest/storefront/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores groups the Redis backed components, or their in-memory fallbacks
type Stores struct {
	Client         *redis.Client // nil when running on the in-memory fallbacks
	TokenBlacklist auth.TokenBlacklist
	RateLimit      RateLimitStore
	Products       KVCache
	Idempotency    IdempotencyStore
}

// Distributed reports whether the stores are shared through Redis
func (s *Stores) Distributed() bool {
	return s.Client != nil
}

// Close releases the Redis client and background goroutines
func (s *Stores) Close() error {
	if c, ok := s.Idempotency.(*InMemoryIdempotencyStore); ok {
		_ = c.Close()
	}
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// Factory creates the cache stores based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to in-memory stores.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStores connects to Redis when configured and builds every store on it.
// Without Redis, in-memory stores are returned; they do not share state across
// instances, so revocations and rate limits apply per process.
func (f *Factory) CreateStores(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled() {
		f.logger.Info("Redis not configured, using in-memory stores")
		return NewInMemoryStores(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, err
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
		return NewInMemoryStores(), nil
	}

	f.logger.Info("Using Redis stores")
	return NewRedisStores(client), nil
}

// NewRedisStores builds every store on one Redis client
func NewRedisStores(client *redis.Client) *Stores {
	return &Stores{
		Client:         client,
		TokenBlacklist: auth.NewRedisTokenBlacklist(client),
		RateLimit:      NewRedisRateLimitStore(client),
		Products:       NewRedisKVCache(client, "storefront:products:"),
		Idempotency:    NewRedisIdempotencyStore(client, ""),
	}
}

// NewInMemoryStores builds the single-process fallbacks
func NewInMemoryStores() *Stores {
	return &Stores{
		TokenBlacklist: auth.NewInMemoryTokenBlacklist(),
		RateLimit:      NewInMemoryRateLimitStore(),
		Products:       NewInMemoryKVCache(),
		Idempotency:    NewInMemoryIdempotencyStore(),
	}
}
