package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dripnest/storefront/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRateLimitStore struct {
	mock.Mock
}

func (m *mockRateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Get(1).(time.Time), args.Error(2)
}

func newRateLimitRouter(cfg RateLimitConfig) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(cfg))
	router.GET("/api/products", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doGet(router http.Handler, path, ip, ua string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":1234"
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	t.Run("limits per client ip", func(t *testing.T) {
		cfg := DefaultRateLimitConfig(cache.NewInMemoryRateLimitStore())
		cfg.Requests = 2
		router := newRateLimitRouter(cfg)

		w := doGet(router, "/api/products", "10.0.0.1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("RateLimit-Limit"))
		assert.Equal(t, "1", w.Header().Get("RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("RateLimit-Reset"))

		assert.Equal(t, http.StatusOK, doGet(router, "/api/products", "10.0.0.1", "").Code)

		w = doGet(router, "/api/products", "10.0.0.1", "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), RateLimitMessage)

		// another client has its own window
		assert.Equal(t, http.StatusOK, doGet(router, "/api/products", "10.0.0.2", "").Code)
	})

	t.Run("skips health and render prober", func(t *testing.T) {
		cfg := DefaultRateLimitConfig(cache.NewInMemoryRateLimitStore())
		cfg.Requests = 1
		router := newRateLimitRouter(cfg)

		for range 3 {
			w := doGet(router, "/api/health", "10.0.0.3", "")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Header().Get("RateLimit-Limit"))
		}
		for range 3 {
			assert.Equal(t, http.StatusOK, doGet(router, "/api/products", "10.0.0.3", "Render/1.0").Code)
		}
	})

	t.Run("fails open when store errors", func(t *testing.T) {
		store := new(mockRateLimitStore)
		store.On("Hit", mock.Anything, "10.0.0.4", 15*time.Minute).
			Return(int64(0), time.Time{}, errors.New("connection refused"))
		router := newRateLimitRouter(DefaultRateLimitConfig(store))

		w := doGet(router, "/api/products", "10.0.0.4", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("RateLimit-Limit"))
		store.AssertExpectations(t)
	})
}
