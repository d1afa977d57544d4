package wizard

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freshhire-backend/internal/jobs"
	"freshhire-backend/internal/shared/server/middleware"
	"freshhire-backend/internal/shared/server/respond"
)

// JobLookup confirms a job exists before a draft is opened for it.
type JobLookup interface {
	GetJob(ctx context.Context, id string) (jobs.Job, error)
}

// Handler exposes drafts over HTTP.
type Handler struct {
	Registry *Registry
	Jobs     JobLookup
}

// NewHandler constructs a Handler.
func NewHandler(registry *Registry, lookup JobLookup) *Handler {
	return &Handler{Registry: registry, Jobs: lookup}
}

// RegisterRoutes attaches draft routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/drafts", h.open)

	d := rg.Group("/drafts/:draftId")
	d.GET("", h.get)
	d.PUT("/personal-info", h.personalInfo)
	d.PUT("/resume", h.resume)
	d.PUT("/cover-letter", h.coverLetter)
	d.POST("/voice", h.voice)
	d.POST("/next", h.next)
	d.POST("/back", h.back)
	d.POST("/submit", h.submit)
	d.POST("/cancel", h.cancel)
}

// ResumeView describes the attached resume without its bytes.
type ResumeView struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	SizeBytes   int    `json:"sizeBytes"`
}

// DraftView is the response body for every draft route.
type DraftView struct {
	ID           string       `json:"id"`
	JobID        string       `json:"jobId"`
	Step         int          `json:"step"`
	State        string       `json:"state"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Resume       *ResumeView  `json:"resume"`
	CoverLetter  string       `json:"coverLetter"`
	IsSubmitting bool         `json:"isSubmitting"`
	CanAdvance   bool         `json:"canAdvance"`
	CanSubmit    bool         `json:"canSubmit"`
	Notice       string       `json:"notice,omitempty"`
}

func toView(id string, d Draft) DraftView {
	v := DraftView{
		ID:           id,
		JobID:        d.JobID,
		Step:         int(d.Step),
		State:        d.Step.String(),
		PersonalInfo: d.PersonalInfo,
		CoverLetter:  d.CoverLetter,
		IsSubmitting: d.IsSubmitting,
		CanAdvance:   d.CanAdvance,
		CanSubmit:    d.CanSubmit,
	}
	if d.Resume != nil {
		v.Resume = &ResumeView{Name: d.Resume.Name, ContentType: d.Resume.ContentType, SizeBytes: len(d.Resume.Data)}
	}
	return v
}

func (h *Handler) open(c *gin.Context) {
	jobID := c.Param("id")
	c.Set(middleware.JobIDKey, jobID)
	if _, err := h.Jobs.GetJob(c.Request.Context(), jobID); err != nil {
		jobs.WriteError(c, err, "job not found")
		return
	}
	id, w := h.Registry.Open(c.Request.Context(), jobID)
	c.Set(middleware.DraftIDKey, id)
	respond.Created(c, toView(id, w.Snapshot()))
}

func (h *Handler) load(c *gin.Context) (string, *Wizard, bool) {
	id := c.Param("draftId")
	c.Set(middleware.DraftIDKey, id)
	w, err := h.Registry.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return "", nil, false
	}
	c.Set(middleware.JobIDKey, w.Snapshot().JobID)
	return id, w, true
}

func (h *Handler) get(c *gin.Context) {
	id, w, ok := h.load(c)
	if !ok {
		return
	}
	respond.OK(c, toView(id, w.Snapshot()))
}

func (h *Handler) personalInfo(c *gin.Context) {
	id, w, ok := h.load(c)
	if !ok {
		return
	}
	var req PersonalInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := w.SetPersonalInfo(req); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toView(id, w.Snapshot()))
}

func (h *Handler) resume(c *gin.Context) {
	id, w, ok := h.load(c)
	if !ok {
		return
	}
	file, err := jobs.ReadResumeFile(c, "resume")
	if err != nil {
		jobs.WriteError(c, err, "")
		return
	}
	if err := w.SelectResume(file); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toView(id, w.Snapshot()))
}

type coverLetterRequest struct {
	CoverLetter string `json:"coverLetter"`
}

func (h *Handler) coverLetter(c *gin.Context) {
	id, w, ok := h.load(c)
	if !ok {
		return
	}
	var req coverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := w.SetCoverLetter(req.CoverLetter); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toView(id, w.Snapshot()))
}

// voiceRequest carries the outcome of a client-side capture session.
type voiceRequest struct {
	Supported  bool   `json:"supported"`
	Transcript string `json:"transcript"`
	Error      string `json:"error"`
}

func (r voiceRequest) speech() Speech {
	switch {
	case !r.Supported:
		return Unavailable{}
	case r.Error != "":
		return Failed{Err: errors.New(r.Error)}
	default:
		return Transcript(r.Transcript)
	}
}

func (h *Handler) voice(c *gin.Context) {
	id, w, ok := h.load(c)
	if !ok {
		return
	}
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = voiceRequest{}
	}
	notice, err := w.CaptureVoice(c.Request.Context(), req.speech())
	if err != nil {
		writeError(c, err)
		return
	}
	view := toView(id, w.Snapshot())
	view.Notice = notice
	respond.OK(c, view)
}

func (h *Handler) next(c *gin.Context) {
	id, w, ok := h.load(c)
	if !ok {
		return
	}
	if err := w.Next(); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toView(id, w.Snapshot()))
}

func (h *Handler) back(c *gin.Context) {
	id, w, ok := h.load(c)
	if !ok {
		return
	}
	if err := w.Back(); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toView(id, w.Snapshot()))
}

func (h *Handler) submit(c *gin.Context) {
	id := c.Param("draftId")
	c.Set(middleware.DraftIDKey, id)
	w, err := h.Registry.Submit(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toView(id, w.Snapshot()))
}

func (h *Handler) cancel(c *gin.Context) {
	id := c.Param("draftId")
	c.Set(middleware.DraftIDKey, id)
	w, err := h.Registry.Cancel(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toView(id, w.Snapshot()))
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrDraftNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "draft not found", nil)
	case errors.Is(err, ErrSubmitInFlight):
		respond.Error(c, http.StatusConflict, "submit_in_flight", "submission already in progress", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", err.Error(), nil)
	case errors.Is(err, ErrDraftClosed):
		respond.Error(c, http.StatusConflict, "draft_closed", "draft is closed", nil)
	case errors.As(err, &verr):
		status, code := jobs.HTTPStatus(verr.Err)
		respond.Error(c, status, code, verr.Message, nil)
	default:
		jobs.WriteError(c, err, "failed to submit application")
	}
}
