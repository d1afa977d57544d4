package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/session"
	"freshhire-backend/internal/shared/server/respond"
)

const (
	userIDKey    = respond.UserIDKey
	userEmailKey = "userEmail"
)

// TokenAuthenticator resolves a bearer token into an identity.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (session.Identity, error)
}

// Auth resolves the bearer token, if present, and stores the identity in both
// the gin context and the request context. Requests without a token continue
// anonymously; a malformed or rejected token is a 401.
func Auth(authn TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthenticated", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthenticated", "missing or invalid token", nil)
			return
		}

		identity, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil || identity.ID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthenticated", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, identity.ID)
		if identity.Email != "" {
			c.Set(userEmailKey, identity.Email)
		}
		c.Request = c.Request.WithContext(session.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RequireUser aborts with 401 when no identity was resolved.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserIDFromContext(c) == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthenticated", "sign in required", nil)
			return
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}
