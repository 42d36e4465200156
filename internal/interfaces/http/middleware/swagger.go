package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/dripnest/storefront/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls who may read /swagger
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string // addresses or CIDRs; empty allows everyone
}

// SwaggerProtection answers 404 while the docs are disabled and 403 to
// clients outside AllowedIPs. Unparseable allowlist entries are skipped.
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	allowed := parseAllowlist(cfg.AllowedIPs)
	restricted := len(cfg.AllowedIPs) > 0

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound,
				dto.NewErrorResponse(dto.ErrCodeNotFound, "Not found - "+c.Request.URL.Path))
			return
		}
		if restricted && !clientAllowed(c.ClientIP(), allowed) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Access to API documentation is restricted"))
			return
		}
		c.Next()
	}
}

// parseAllowlist turns entries into prefixes; a bare address becomes a /32 or /128
func parseAllowlist(entries []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				prefixes = append(prefixes, p.Masked())
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return prefixes
}

func clientAllowed(clientIP string, allowed []netip.Prefix) bool {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range allowed {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
