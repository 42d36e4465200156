package handler

import (
	"net/http"
	"time"

	"github.com/dripnest/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports whether the API can reach its database
type HealthHandler struct {
	db  middleware.HealthChecker
	now func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db middleware.HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// Check godoc
// @Summary      Health check
// @Description  Report API status and database connectivity
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	if h.db != nil && !h.db.IsHealthy() {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:   "SERVICE_UNAVAILABLE",
			Message:  "Database connection issue",
			Database: DatabaseHealth{Status: "disconnected"},
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "DripNest API is running",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Database:  DatabaseHealth{Status: "connected"},
	})
}
