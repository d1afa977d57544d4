package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshhire-backend/internal/session"
	"freshhire-backend/internal/shared/server/middleware"
)

type tokenAuth map[string]session.Identity

func (a tokenAuth) Authenticate(_ context.Context, token string) (session.Identity, error) {
	id, ok := a[token]
	if !ok {
		return session.Identity{}, ErrUnauthenticated
	}
	return id, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *countingRepo, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := &countingRepo{MemoryRepo: NewMemoryRepo()}
	seedJobs(t, repo)
	store := newFakeStore()
	svc := &Service{Repo: repo, Store: store, Session: session.ContextSource{}}

	r := gin.New()
	r.Use(middleware.Auth(tokenAuth{"tok": {ID: "user-1", Email: "a@b.com"}}))
	NewHandler(svc, nil).RegisterRoutes(r.Group("/api/v1"))
	return r, repo, store
}

func multipartBody(t *testing.T, fileName, contentType string, data []byte, coverLetter string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="resume"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	if coverLetter != "" {
		require.NoError(t, w.WriteField("coverLetter", coverLetter))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandlerListJobs(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?search=acme&location=Bangalore", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body JobListResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, []string{"job-4", "job-1"}, ids(body.Jobs))
}

func TestHandlerGetJobNotFound(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nope", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), `"code":"not_found"`)
}

func TestHandlerApplyUnauthenticated(t *testing.T) {
	r, repo, _ := newTestRouter(t)
	body, ct := multipartBody(t, "cv.pdf", PDFContentType, []byte("%PDF"), "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/apply", body)
	req.Header.Set("Content-Type", ct)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), `"code":"unauthenticated"`)
	assert.Zero(t, repo.inserts)
}

func TestHandlerApplyRejectsNonPDF(t *testing.T) {
	r, repo, store := newTestRouter(t)
	body, ct := multipartBody(t, "notes.txt", "text/plain", []byte("hello"), "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/apply", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer tok")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "please upload a PDF file")
	assert.Zero(t, repo.inserts)
	assert.Empty(t, store.objects)
}

func TestHandlerApplyAndListApplications(t *testing.T) {
	r, _, _ := newTestRouter(t)
	body, ct := multipartBody(t, "cv.pdf", PDFContentType, []byte("%PDF-1.4"), "Hire me")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/apply", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer tok")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var list ApplicationListResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Applications, 1)
	assert.Equal(t, "job-1", list.Applications[0].JobID)
	assert.Equal(t, "Frontend Developer", list.Applications[0].Job.Title)
	require.NotNil(t, list.Applications[0].CoverLetter)
	assert.Equal(t, "Hire me", *list.Applications[0].CoverLetter)
}

func TestHandlerApplyUploadFailureIs502(t *testing.T) {
	r, repo, store := newTestRouter(t)
	store.uploadErr = assert.AnError
	body, ct := multipartBody(t, "cv.pdf", PDFContentType, []byte("%PDF"), "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/apply", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer tok")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), `"code":"upload_failed"`)
	assert.Zero(t, repo.inserts)
}

func TestHandlerApplicationsEmptyList(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"applications":[]}`, resp.Body.String())
}
