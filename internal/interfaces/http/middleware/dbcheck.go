package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DBUnavailableMessage is returned while the database is unreachable
const DBUnavailableMessage = "Database service unavailable. Please try again later."

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	IsHealthy() bool
}

// DBCheckConfig holds configuration for the database availability gate
type DBCheckConfig struct {
	Checker   HealthChecker
	SkipPaths []string
}

// DBCheck rejects API requests with 503 while the database is down.
// The health endpoint stays reachable so probes can report the outage.
func DBCheck(checker HealthChecker) gin.HandlerFunc {
	return DBCheckWithConfig(DBCheckConfig{
		Checker:   checker,
		SkipPaths: []string{"/api/health"},
	})
}

// DBCheckWithConfig returns the database availability gate with custom configuration
func DBCheckWithConfig(cfg DBCheckConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok || cfg.Checker == nil || cfg.Checker.IsHealthy() {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"success":   false,
			"error":     DBUnavailableMessage,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
