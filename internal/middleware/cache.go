package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheConfig decides Cache-Control for the static host. HTML carries the
// injected environment and must be revalidated; fingerprinted build assets
// never change under the same name.
type CacheConfig struct {
	ImmutablePrefixes []string
	ImmutableMaxAge   int
	DefaultMaxAge     int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ImmutablePrefixes: []string{"/static/"},
		ImmutableMaxAge:   31536000,
		DefaultMaxAge:     300,
	}
}

func Cache(config CacheConfig) gin.HandlerFunc {
	immutable := "public, max-age=" + strconv.Itoa(config.ImmutableMaxAge) + ", immutable"
	fallback := "public, max-age=" + strconv.Itoa(config.DefaultMaxAge)

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		switch {
		case c.Request.Method != "GET" && c.Request.Method != "HEAD":
			c.Header("Cache-Control", "no-store")
		case path == "/" || strings.HasSuffix(path, ".html") || !strings.Contains(lastSegment(path), "."):
			// documents and SPA routes
			c.Header("Cache-Control", "no-cache")
		case hasAnyPrefix(path, config.ImmutablePrefixes):
			c.Header("Cache-Control", immutable)
		default:
			c.Header("Cache-Control", fallback)
		}

		c.Next()
	}
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
