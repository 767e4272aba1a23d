package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Preflights grant what a dashboard uses: GET /health and a JSON POST to
// /api/v1/scrapes.
const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, X-Requested-With"
	corsMaxAge       = "3600"
)

// originPolicy is the parsed form of server.allowed_origins. Entries ending
// in "*" match by prefix, e.g. "http://localhost:*" for a local dev server.
type originPolicy struct {
	exact    map[string]struct{}
	prefixes []string
}

func newOriginPolicy(allowedOrigins []string) originPolicy {
	p := originPolicy{exact: make(map[string]struct{}, len(allowedOrigins))}
	for _, allowed := range allowedOrigins {
		allowed = strings.TrimSpace(allowed)
		if allowed == "" {
			continue
		}
		if prefix, ok := strings.CutSuffix(allowed, "*"); ok {
			p.prefixes = append(p.prefixes, prefix)
			continue
		}
		p.exact[allowed] = struct{}{}
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// CORSMiddleware lets dashboards served from the configured origins call the
// scrape API from a browser. Other origins get no CORS headers. Preflights
// are answered here and never reach a scrape run.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	policy := newOriginPolicy(allowedOrigins)

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		header := c.Writer.Header()
		header.Add("Vary", "Origin")

		if policy.allows(origin) {
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Allow-Methods", corsAllowMethods)
			header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			header.Set("Access-Control-Max-Age", corsMaxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin reports whether origin passes the policy built from allowedOrigins
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	return newOriginPolicy(allowedOrigins).allows(origin)
}

// LoggerMiddleware logs one line per request
func LoggerMiddleware() gin.HandlerFunc {
	return gin.Logger()
}

// RecoveryMiddleware turns a panicking handler into a 500
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}
