package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dripnest/storefront/internal/infrastructure/cache"
	"github.com/dripnest/storefront/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMessage is returned once a client exhausts its window
const RateLimitMessage = "Too many requests from this IP, please try again later."

// RateLimitConfig holds the limiter settings
type RateLimitConfig struct {
	Store    cache.RateLimitStore
	Requests int
	Window   time.Duration
	// SkipPaths are exempt, e.g. the health check
	SkipPaths []string
	// SkipUserAgents are substrings of user agents that are never limited
	SkipUserAgents []string
	Logger         *zap.Logger
}

// DefaultRateLimitConfig returns 1000 requests per 15 minutes, skipping the
// health check and the Render health prober
func DefaultRateLimitConfig(store cache.RateLimitStore) RateLimitConfig {
	return RateLimitConfig{
		Store:          store,
		Requests:       1000,
		Window:         15 * time.Minute,
		SkipPaths:      []string{"/health", "/api/health"},
		SkipUserAgents: []string{"Render/1.0"},
	}
}

// RateLimit counts requests per client IP in fixed windows and answers 429
// once the budget is spent. A failing store lets the request through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	skipPaths := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skipPaths[p] = struct{}{}
	}
	limit := strconv.Itoa(cfg.Requests)

	return func(c *gin.Context) {
		if _, ok := skipPaths[c.Request.URL.Path]; ok || skipUserAgent(c.Request.UserAgent(), cfg.SkipUserAgents) {
			c.Next()
			return
		}

		count, resetAt, err := cfg.Store.Hit(c.Request.Context(), c.ClientIP(), cfg.Window)
		if err != nil {
			cfg.Logger.Warn("Rate limit store unavailable", zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(cfg.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		reset := strconv.Itoa(int(math.Ceil(time.Until(resetAt).Seconds())))
		c.Header("RateLimit-Policy", limit+";w="+strconv.Itoa(int(cfg.Window.Seconds())))
		c.Header("RateLimit-Limit", limit)
		c.Header("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("RateLimit-Reset", reset)

		if count > int64(cfg.Requests) {
			c.Header("Retry-After", reset)
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(dto.ErrCodeRateLimited, RateLimitMessage))
			return
		}
		c.Next()
	}
}

func skipUserAgent(ua string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(ua, p) {
			return true
		}
	}
	return false
}
