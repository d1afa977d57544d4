package respond

import "github.com/gin-gonic/gin"

// Gin context keys for the ids a request log line is correlated by. The
// request id and user are set by middleware; job and draft ids by handlers.
const (
	RequestIDKey = "requestId"
	UserIDKey    = "userId"
	JobIDKey     = "jobId"
	DraftIDKey   = "draftId"
)

var correlated = []struct{ key, field string }{
	{UserIDKey, "user_id"},
	{JobIDKey, "job_id"},
	{DraftIDKey, "draft_id"},
}

// CorrelationFields returns the request id plus whichever of user, job and
// draft id are set on c.
func CorrelationFields(c *gin.Context) map[string]any {
	fields := map[string]any{"request_id": c.GetString(RequestIDKey)}
	for _, k := range correlated {
		if v := c.GetString(k.key); v != "" {
			fields[k.field] = v
		}
	}
	return fields
}
