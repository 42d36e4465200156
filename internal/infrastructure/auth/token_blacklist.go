package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes tokens before they expire. Logout revokes a single
// token by JTI; deleting or demoting a user revokes every token issued to
// them so far.
type TokenBlacklist interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	RevokeUserTokens(ctx context.Context, userID string, ttl time.Duration) error
	IsRevokedForUser(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const blacklistKeyPrefix = "storefront:token:blacklist:"

// RedisTokenBlacklist keeps revocations in Redis so every API instance sees them
type RedisTokenBlacklist struct {
	client redis.UniversalClient
}

// NewRedisTokenBlacklist creates a token blacklist on an existing Redis client
func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return blacklistKeyPrefix + "jti:" + jti
}

func (b *RedisTokenBlacklist) userKey(userID string) string {
	return blacklistKeyPrefix + "user:" + userID
}

// RevokeToken stores jti for ttl. A non-positive ttl means the token has
// already expired and nothing is stored.
func (b *RedisTokenBlacklist) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

// RevokeUserTokens records the current unix time as the user's cut-off.
// ttl should be the refresh token lifetime so the cut-off outlives every token.
func (b *RedisTokenBlacklist) RevokeUserTokens(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsRevokedForUser(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, b.userKey(userID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to check user token invalidation: %w", err)
	}

	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

// InMemoryTokenBlacklist is the single-process fallback used without Redis.
// Revocations are lost on restart.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
	cutoffs map[string]time.Time // user id -> revoked-before time
}

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revoked: make(map[string]time.Time),
		cutoffs: make(map[string]time.Time),
	}
}

func (b *InMemoryTokenBlacklist) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	b.revoked[jti] = time.Now().Add(ttl)
	b.mu.Unlock()
	return nil
}

// IsTokenRevoked drops the entry once its ttl has passed
func (b *InMemoryTokenBlacklist) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, ok := b.revoked[jti]
	if ok && time.Now().After(expiry) {
		delete(b.revoked, jti)
		return false, nil
	}
	return ok, nil
}

func (b *InMemoryTokenBlacklist) RevokeUserTokens(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	b.cutoffs[userID] = time.Now()
	b.mu.Unlock()
	return nil
}

func (b *InMemoryTokenBlacklist) IsRevokedForUser(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff, ok := b.cutoffs[userID]
	return ok && !issuedAt.After(cutoff), nil
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
)
