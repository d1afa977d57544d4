package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/shared/server/respond"
	"freshhire-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500. The panic is logged with the
// request's correlation ids, including the job and draft it was serving.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := respond.CorrelationFields(c)
			fields["error"] = rec
			fields["stack"] = string(debug.Stack())
			fields["method"] = c.Request.Method
			fields["route"] = c.FullPath()
			telemetry.Error("handler.panic", fields)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.", nil)
		}()
		c.Next()
	}
}
