package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dripnest/storefront/internal/infrastructure/auth"
	"github.com/dripnest/storefront/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newTestTokenPair(t *testing.T, jwtService *auth.JWTService, role string) (*auth.TokenPair, auth.Subject) {
	t.Helper()
	subject := auth.Subject{UserID: uuid.New(), Email: "jane@example.com", Role: role}
	pair, err := jwtService.GenerateTokenPair(subject)
	require.NoError(t, err)
	return pair, subject
}

func newAuthRouter(cfg JWTMiddlewareConfig, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetJWTUserID(c), "admin": IsAdmin(c)})
	})
	router.GET("/test", handlers...)
	return router
}

func authGet(router http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, subject := newTestTokenPair(t, jwtService, "customer")

	router := gin.New()
	router.Use(JWTAuthMiddleware(JWTMiddlewareConfig{JWTService: jwtService}))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, subject.UserID.String(), claims.UserID)

		id, ok := GetJWTUserUUID(c)
		assert.True(t, ok)
		assert.Equal(t, subject.UserID, id)
		assert.False(t, IsAdmin(c))
		c.Status(http.StatusOK)
	})

	rec := authGet(router, "Bearer "+pair.AccessToken)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService, "customer")
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: jwtService})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", "UNAUTHORIZED"},
		{"empty bearer", "Bearer ", "UNAUTHORIZED"},
		{"garbage token", "Bearer not-a-jwt", "TOKEN_INVALID"},
		{"refresh token as access", "Bearer " + pair.RefreshToken, "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := authGet(router, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.code+`"`)
		})
	}
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist})

	t.Run("logged out jti", func(t *testing.T) {
		pair, _ := newTestTokenPair(t, jwtService, "customer")
		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, authGet(router, "Bearer "+pair.AccessToken).Code)

		require.NoError(t, blacklist.RevokeToken(context.Background(), claims.ID, time.Hour))
		rec := authGet(router, "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token has been revoked")
	})

	t.Run("deleted user", func(t *testing.T) {
		pair, subject := newTestTokenPair(t, jwtService, "customer")
		require.NoError(t, blacklist.RevokeUserTokens(context.Background(), subject.UserID.String(), time.Hour))

		rec := authGet(router, "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
	})
}

func TestRequireAdmin(t *testing.T) {
	jwtService := newTestJWTService()
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: jwtService}, RequireAdmin())

	t.Run("admin passes", func(t *testing.T) {
		pair, _ := newTestTokenPair(t, jwtService, "admin")
		rec := authGet(router, "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"admin":true`)
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		pair, _ := newTestTokenPair(t, jwtService, "customer")
		rec := authGet(router, "Bearer "+pair.AccessToken)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "User role customer is not authorized to access this route")
	})

	t.Run("no token is unauthorized", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, authGet(router, "").Code)
	})

	t.Run("without auth middleware", func(t *testing.T) {
		r := gin.New()
		r.GET("/test", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusUnauthorized, authGet(r, "").Code)
	})
}
