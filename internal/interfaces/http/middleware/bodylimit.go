package middleware

import (
	"net/http"

	"github.com/dripnest/storefront/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize is the request body ceiling used when none is configured
const DefaultMaxBodySize int64 = 10 << 20

// BodyLimit returns a middleware that limits request body size. Bodies of
// unknown length are capped with http.MaxBytesReader; handlers turn the
// resulting *http.MaxBytesError into the same 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeTooLarge, "Request entity too large"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
