package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/shared/server/respond"
	"freshhire-backend/internal/shared/telemetry"
)

// Context keys handlers set so the request log can correlate domain ids.
const (
	JobIDKey   = respond.JobIDKey
	DraftIDKey = respond.DraftIDKey
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"job_id":      c.GetString(JobIDKey),
			"draft_id":    c.GetString(DraftIDKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
