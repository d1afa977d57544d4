package respond

import (
	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response and logs it with the request's
// correlation ids, so a failed apply can be traced to its job and draft. 5xx
// responses log at error level, everything else at warn.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := CorrelationFields(c)
	fields["status"] = status
	fields["code"] = code
	fields["message"] = message
	fields["method"] = c.Request.Method
	fields["route"] = c.FullPath()
	if fields["route"] == "" {
		fields["route"] = c.Request.URL.Path
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
