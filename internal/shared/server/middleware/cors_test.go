package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(origins))
	router.POST("/api/v1/drafts/:id/submit", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/drafts/d-1/submit", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	return req
}

func TestCORSPreflight(t *testing.T) {
	resp := httptest.NewRecorder()
	corsRouter("http://localhost:5173").ServeHTTP(resp, preflight("http://localhost:5173"))

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected Allow-Origin http://localhost:5173, got %q", got)
	}
	allowHeaders := resp.Header().Get("Access-Control-Allow-Headers")
	for _, h := range []string{"Authorization", "apikey", "X-Request-Id"} {
		if !strings.Contains(allowHeaders, h) {
			t.Fatalf("expected %s in Allow-Headers, got %q", h, allowHeaders)
		}
	}
	if got := resp.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Fatalf("expected Max-Age 600, got %q", got)
	}
}

func TestCORSSimpleRequestExposesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d-1/submit", nil)
	req.Header.Set("Origin", "http://localhost:5173/")
	resp := httptest.NewRecorder()
	corsRouter("http://localhost:5173/").ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Expose-Headers"); got != "X-Request-Id" {
		t.Fatalf("expected X-Request-Id exposed, got %q", got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Methods"); got != "" {
		t.Fatalf("expected no Allow-Methods outside preflight, got %q", got)
	}
}

func TestCORSWildcardEchoesOrigin(t *testing.T) {
	resp := httptest.NewRecorder()
	corsRouter("*").ServeHTTP(resp, preflight("https://app.freshhire.example"))

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://app.freshhire.example" {
		t.Fatalf("expected origin echoed, got %q", got)
	}
}

func TestCORSRejectsUnknownOriginPreflight(t *testing.T) {
	resp := httptest.NewRecorder()
	corsRouter("http://localhost:5173").ServeHTTP(resp, preflight("http://evil.example"))

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no Allow-Origin, got %q", got)
	}
}

func TestCORSUnknownOriginSimpleRequestPassesWithoutHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d-1/submit", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp := httptest.NewRecorder()
	corsRouter("http://localhost:5173").ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no Allow-Origin, got %q", got)
	}
}
