package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/shared/config"
	"freshhire-backend/internal/shared/metrics"
	"freshhire-backend/internal/shared/server/middleware"
	"freshhire-backend/internal/shared/server/respond"
	"freshhire-backend/internal/shared/storage/object"
	"freshhire-backend/internal/shared/telemetry"
)

const (
	apiPrefix     = "/api/v1"
	storagePrefix = "/storage/v1/object/public"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers and shared services the router mounts.
type RouterDeps struct {
	Config        config.Config
	Authenticator middleware.TokenAuthenticator
	// PublicObjects, when set, serves stored resumes read-only under the
	// public storage path. Only the local store needs this.
	PublicObjects object.ObjectStore
	RateLimiter   *middleware.RateLimiter
	Handlers      []RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.APIKey(deps.Config.PublicAPIKey,
			apiPrefix+"/health",
			apiPrefix+"/auth/google",
			"/metrics",
			storagePrefix,
		),
		middleware.Auth(deps.Authenticator),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    middleware.DefaultRateLimitRules(),
			GroupFor: middleware.GroupByRoute(rateGroups()),
			Limiter:  deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.PublicObjects != nil {
		r.GET(storagePrefix+"/:bucket/*key", servePublicObject(deps.PublicObjects, deps.Config.ResumeBucket))
	}

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

func rateGroups() map[string]string {
	return map[string]string{
		"POST /api/v1/jobs/:id/apply":         middleware.RateGroupApply,
		"POST /api/v1/drafts/:draftId/submit": middleware.RateGroupApply,
		"POST /api/v1/auth/signup":            middleware.RateGroupAuth,
		"POST /api/v1/auth/signin":            middleware.RateGroupAuth,
	}
}

func servePublicObject(store object.ObjectStore, bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("bucket") != bucket {
			respond.Error(c, http.StatusNotFound, "not_found", "object not found", nil)
			return
		}
		key := strings.TrimPrefix(c.Param("key"), "/")
		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, object.ErrInvalidKey) || errors.Is(err, os.ErrNotExist) {
				respond.Error(c, http.StatusNotFound, "not_found", "object not found", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read object", nil)
			return
		}
		defer rc.Close()

		c.Header("Content-Type", contentTypeFor(key))
		c.Header("Cache-Control", "public, max-age=3600")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, rc); err != nil {
			telemetry.Warn("storage.serve_failed", map[string]any{"key": key, "error": err})
		}
	}
}

func contentTypeFor(key string) string {
	if strings.EqualFold(path.Ext(key), ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
