package auth

import (
	"testing"
	"time"

	"github.com/dripnest/storefront/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        2,
	})
}

func newTestSubject() Subject {
	return Subject{UserID: uuid.New(), Email: "ada@example.com", Role: "customer"}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret"})

	assert.Equal(t, []byte("test-secret"), svc.keys[TokenTypeRefresh])
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestSubject())

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()
	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		id, err := claims.UserUUID()
		require.NoError(t, err)
		assert.Equal(t, subject.UserID, id)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.False(t, claims.IsAdmin())
		assert.NotEmpty(t, claims.ID)
		assert.Greater(t, claims.RemainingTTL(), 14*time.Minute)
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.AccessToken + "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			AccessTokenExpiration: time.Minute,
			Issuer:                "someone-else",
		})
		foreign, err := other.GenerateTokenPair(subject)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(foreign.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err := svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong token type under the same secret", func(t *testing.T) {
		shared := NewJWTService(config.JWTConfig{
			Secret:                 "one-secret-for-both-token-types!!",
			AccessTokenExpiration:  time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "test-issuer",
		})
		p, err := shared.GenerateTokenPair(subject)
		require.NoError(t, err)

		_, err = shared.ValidateAccessToken(p.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: subject.UserID.String(), TokenType: TokenTypeAccess})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()
	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	t.Run("issues a pair with the current role", func(t *testing.T) {
		promoted := subject
		promoted.Role = "admin"

		next, err := svc.RefreshTokenPair(pair.RefreshToken, promoted)
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(next.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin())

		refreshClaims, err := svc.ValidateRefreshToken(next.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, refreshClaims.RefreshCount)
	})

	t.Run("rejects another user's refresh token", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(pair.RefreshToken, newTestSubject())
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("stops after the maximum refresh count", func(t *testing.T) {
		current := pair
		for range 2 {
			current, err = svc.RefreshTokenPair(current.RefreshToken, subject)
			require.NoError(t, err)
		}

		_, err = svc.RefreshTokenPair(current.RefreshToken, subject)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(pair.AccessToken, subject)
		assert.Error(t, err)
	})
}
