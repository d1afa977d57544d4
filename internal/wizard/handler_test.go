package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshhire-backend/internal/jobs"
	"freshhire-backend/internal/session"
	"freshhire-backend/internal/shared/server/middleware"
)

type memStore struct{ keys []string }

func (m *memStore) Upload(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	m.keys = append(m.keys, key)
	n, err := io.Copy(io.Discard, r)
	return n, err
}

func (m *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (m *memStore) PublicURL(key string) string { return "https://files.test/" + key }

type tokenAuth map[string]session.Identity

func (a tokenAuth) Authenticate(_ context.Context, token string) (session.Identity, error) {
	id, ok := a[token]
	if !ok {
		return session.Identity{}, errors.New("bad token")
	}
	return id, nil
}

type harness struct {
	router *gin.Engine
	svc    *jobs.Service
	store  *memStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := jobs.NewMemoryRepo()
	require.NoError(t, repo.UpsertJob(context.Background(), jobs.Job{ID: "job-1", Title: "Frontend Developer", Company: "Acme", CreatedAt: time.Now()}))
	store := &memStore{}
	svc := &jobs.Service{Repo: repo, Store: store, Session: session.ContextSource{}}
	reg := NewRegistry(svc, session.ContextSource{}, time.Minute)

	r := gin.New()
	r.Use(middleware.Auth(tokenAuth{"tok": {ID: "user-1"}}))
	NewHandler(reg, svc).RegisterRoutes(r.Group("/api/v1"))
	return &harness{router: r, svc: svc, store: store}
}

func (h *harness) do(t *testing.T, method, path string, body io.Reader, contentType string) (int, DraftView, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer tok")
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)
	var view DraftView
	_ = json.Unmarshal(resp.Body.Bytes(), &view)
	return resp.Code, view, resp.Body.String()
}

func (h *harness) json(t *testing.T, method, path, body string) (int, DraftView, string) {
	return h.do(t, method, path, strings.NewReader(body), "application/json")
}

func resumeUpload(t *testing.T, name, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="resume"; filename="`+name+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4 data"))
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestWizardHTTPFlow(t *testing.T) {
	h := newHarness(t)

	code, view, _ := h.do(t, http.MethodPost, "/api/v1/jobs/job-1/drafts", nil, "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 1, view.Step)
	assert.False(t, view.CanAdvance)
	base := "/api/v1/drafts/" + view.ID

	code, _, body := h.do(t, http.MethodPost, base+"/next", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, MsgPersonalInfoRequired)

	code, view, _ = h.json(t, http.MethodPut, base+"/personal-info", `{"name":"Asha","email":"asha@example.com","phone":"123"}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, view.CanAdvance)

	code, view, _ = h.do(t, http.MethodPost, base+"/next", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, view.Step)

	code, view, _ = h.do(t, http.MethodPost, base+"/next", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, view.Step)
	assert.True(t, view.CanSubmit)

	code, _, body = h.do(t, http.MethodPost, base+"/submit", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, MsgResumeRequired)

	code, view, _ = h.do(t, http.MethodPost, base+"/back", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, view.Step)

	upload, ct := resumeUpload(t, "valid.pdf", jobs.PDFContentType)
	code, view, _ = h.do(t, http.MethodPut, base+"/resume", upload, ct)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, view.Resume)
	assert.Equal(t, "valid.pdf", view.Resume.Name)

	upload, ct = resumeUpload(t, "invalid.txt", "text/plain")
	code, _, body = h.do(t, http.MethodPut, base+"/resume", upload, ct)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, MsgResumeNotPDF)

	code, view, _ = h.json(t, http.MethodPost, base+"/voice", `{"supported":false}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, VoiceUnsupportedNotice, view.Notice)

	code, view, _ = h.json(t, http.MethodPut, base+"/cover-letter", `{"coverLetter":"Hello"}`)
	require.Equal(t, http.StatusOK, code)
	code, view, _ = h.json(t, http.MethodPost, base+"/voice", `{"supported":true,"transcript":"world"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Hello world", view.CoverLetter)
	require.NotNil(t, view.Resume)
	assert.Equal(t, "valid.pdf", view.Resume.Name)

	code, view, _ = h.do(t, http.MethodPost, base+"/next", nil, "")
	require.Equal(t, http.StatusOK, code)

	code, view, _ = h.do(t, http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "submitted", view.State)
	assert.Len(t, h.store.keys, 1)

	code, _, _ = h.do(t, http.MethodGet, base, nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	apps, err := h.svc.ListUserApplications(session.WithIdentity(context.Background(), session.Identity{ID: "user-1"}))
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].CoverLetter)
	assert.Equal(t, "Hello world", *apps[0].CoverLetter)
}

func TestWizardHTTPUnknownJob(t *testing.T) {
	h := newHarness(t)

	code, _, body := h.do(t, http.MethodPost, "/api/v1/jobs/nope/drafts", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, `"code":"not_found"`)
}

func TestWizardHTTPCancel(t *testing.T) {
	h := newHarness(t)

	_, view, _ := h.do(t, http.MethodPost, "/api/v1/jobs/job-1/drafts", nil, "")
	base := "/api/v1/drafts/" + view.ID

	code, view, _ := h.do(t, http.MethodPost, base+"/cancel", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cancelled", view.State)

	code, _, _ = h.do(t, http.MethodPost, base+"/next", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Empty(t, h.store.keys)
}
