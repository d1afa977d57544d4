package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/shared/server/respond"
)

// APIKeyHeader carries the public client key.
const APIKeyHeader = "apikey"

// APIKey rejects requests that do not present the configured public key.
// Paths under any of the skip prefixes are exempt.
func APIKey(key string, skipPrefixes ...string) gin.HandlerFunc {
	expected := []byte(strings.TrimSpace(key))
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, p := range skipPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}
		got := []byte(strings.TrimSpace(c.GetHeader(APIKeyHeader)))
		if len(got) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			respond.Error(c, http.StatusUnauthorized, "invalid_api_key", "missing or invalid api key", nil)
			return
		}
		c.Next()
	}
}
