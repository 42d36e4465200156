package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// queryInt reads an integer query parameter; missing or malformed values read as 0
// so the services fall back to their defaults
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

// queryDecimal reads a money query parameter; missing or malformed values read as nil
func queryDecimal(c *gin.Context, key string) *decimal.Decimal {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
