package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freshhire-backend/internal/shared/telemetry"
)

func TestRequestIDReusesCallerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/x", func(c *gin.Context) { seen = RequestIDFromContext(c) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "web-7f3a.1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if seen != "web-7f3a.1" || resp.Header().Get(RequestIDHeader) != "web-7f3a.1" {
		t.Fatalf("expected caller id reused, got ctx=%q header=%q", seen, resp.Header().Get(RequestIDHeader))
	}
}

func TestRequestIDReplacesUnsafeToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) {})

	for _, in := range []string{"", "has space", "line\tbreak", strings.Repeat("a", 65)} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if in != "" {
			req.Header.Set(RequestIDHeader, in)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		got := resp.Header().Get(RequestIDHeader)
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("header %q: expected generated uuid, got %q", in, got)
		}
	}
}

func TestErrorLogCarriesDraftAndJob(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	defer telemetry.SetOutput(os.Stdout)

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.POST("/api/v1/drafts/:id/submit", func(c *gin.Context) {
		c.Set(DraftIDKey, c.Param("id"))
		c.Set(JobIDKey, "job-4")
		panic("applier exploded")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d-9/submit", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var panicLine map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var payload map[string]any
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			t.Fatalf("decode log json: %v", err)
		}
		if payload["msg"] == "handler.panic" {
			panicLine = payload
		}
	}
	if panicLine == nil {
		t.Fatalf("expected handler.panic log, got %s", buf.String())
	}
	want := map[string]string{
		"request_id": "req-1",
		"draft_id":   "d-9",
		"job_id":     "job-4",
		"route":      "/api/v1/drafts/:id/submit",
	}
	for k, v := range want {
		if panicLine[k] != v {
			t.Fatalf("expected %s=%q, got %v", k, v, panicLine[k])
		}
	}
}
