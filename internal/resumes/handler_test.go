package resumes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshhire-backend/internal/session"
	"freshhire-backend/internal/shared/server/middleware"
)

type tokenMap map[string]session.Identity

func (m tokenMap) Authenticate(_ context.Context, token string) (session.Identity, error) {
	id, ok := m[token]
	if !ok {
		return session.Identity{}, errors.New("unknown token")
	}
	return id, nil
}

func TestResumeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(tokenMap{"tok": {ID: "u-1"}}))
	NewHandler(NewService(NewMemoryRepo(), session.ContextSource{})).RegisterRoutes(r.Group("/api/v1"))

	send := func(method, body string, auth bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/v1/resume", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if auth {
			req.Header.Set("Authorization", "Bearer tok")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, send(http.MethodGet, "", false).Code)

	w := send(http.MethodGet, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"resume":null}`, w.Body.String())

	w = send(http.MethodPut, `{"title":"Mine","skills":["Go"," "]}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"skills":["Go"]`)

	w = send(http.MethodPut, `{"personalInfo":{"email":"bad"}}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")

	w = send(http.MethodGet, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Mine"`)
}
