package jobs

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/shared/server/middleware"
	"freshhire-backend/internal/shared/server/respond"
	"freshhire-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the jobs service.
type Handler struct {
	Svc     *Service
	Filters FilterParser
}

// NewHandler constructs a Handler. A nil parser falls back to RawFilters.
func NewHandler(svc *Service, parser FilterParser) *Handler {
	if parser == nil {
		parser = RawFilters
	}
	return &Handler{Svc: svc, Filters: parser}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.POST("/jobs/:id/apply", h.apply)
	rg.GET("/applications", h.applications)
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.Svc.ListJobs(c.Request.Context(), h.Filters(c.Request.URL.Query()))
	if err != nil {
		WriteError(c, err, "failed to load jobs")
		return
	}
	respond.OK(c, JobListResponse{Jobs: out, Count: len(out)})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.JobIDKey, id)
	job, err := h.Svc.GetJob(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err, "job not found")
		return
	}
	respond.OK(c, job)
}

func (h *Handler) apply(c *gin.Context) {
	jobID := c.Param("id")
	c.Set(middleware.JobIDKey, jobID)
	if middleware.UserIDFromContext(c) == "" {
		WriteError(c, ErrUnauthenticated, "")
		return
	}

	file, err := ReadResumeFile(c, "resume")
	if err != nil {
		WriteError(c, err, "")
		return
	}
	if err := ValidateResumeFile(file); err != nil {
		WriteError(c, err, "")
		return
	}

	var coverLetter *string
	if v, ok := c.GetPostForm("coverLetter"); ok && strings.TrimSpace(v) != "" {
		coverLetter = &v
	}

	if err := h.Svc.ApplyToJob(c.Request.Context(), jobID, file, coverLetter); err != nil {
		WriteError(c, err, "")
		return
	}
	respond.Created(c, gin.H{"ok": true})
}

func (h *Handler) applications(c *gin.Context) {
	out, err := h.Svc.ListUserApplications(c.Request.Context())
	if err != nil {
		WriteError(c, err, "failed to load applications")
		return
	}
	respond.OK(c, ApplicationListResponse{Applications: out})
}

// ReadResumeFile reads a multipart file field into memory.
func ReadResumeFile(c *gin.Context, field string) (ResumeFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return ResumeFile{}, fmt.Errorf("%w: %s file is required", ErrValidationFailed, field)
	}
	if header.Size > MaxResumeBytes {
		return ResumeFile{}, fmt.Errorf("%w: resume exceeds %d bytes", ErrValidationFailed, MaxResumeBytes)
	}
	name, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		return ResumeFile{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	f, err := header.Open()
	if err != nil {
		return ResumeFile{}, fmt.Errorf("%w: unreadable upload", ErrValidationFailed)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxResumeBytes+1))
	if err != nil {
		return ResumeFile{}, fmt.Errorf("%w: unreadable upload", ErrValidationFailed)
	}
	return ResumeFile{
		Name:        name,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// WriteError maps a data access error onto the standard error response.
// Validation messages are passed through; other errors use fallback.
func WriteError(c *gin.Context, err error, fallback string) {
	status, code := HTTPStatus(err)
	message := fallback
	switch {
	case errors.Is(err, ErrValidationFailed):
		message = userMessage(err)
	case errors.Is(err, ErrUnauthenticated):
		message = "Please sign in to continue."
	case errors.Is(err, ErrUploadFailed):
		message = "Failed to upload resume."
	case errors.Is(err, ErrPersistFailed) && message == "":
		message = "Failed to submit application."
	case message == "":
		message = "request failed"
	}
	respond.Error(c, status, code, message, nil)
}

func userMessage(err error) string {
	msg := err.Error()
	prefix := ErrValidationFailed.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}
