package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"freshhire-backend/internal/session"
	"freshhire-backend/internal/shared/metrics"
	"freshhire-backend/internal/shared/storage/object"
	"freshhire-backend/internal/shared/telemetry"
	"freshhire-backend/internal/shared/util"
)

// Service is the data access layer for jobs and applications.
type Service struct {
	Repo    Repo
	Store   object.ObjectStore
	Session session.Source
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ListJobs returns every job matching filters, newest first.
func (s *Service) ListJobs(ctx context.Context, filters Filters) ([]Job, error) {
	metrics.IncJobSearch()
	out, err := s.Repo.ListJobs(ctx, filters)
	if err != nil {
		telemetry.Error("jobs.list_failed", map[string]any{"error": err})
		return nil, fmt.Errorf("%w: list jobs: %w", ErrQueryFailed, err)
	}
	return out, nil
}

// GetJob fetches one job by id.
func (s *Service) GetJob(ctx context.Context, id string) (Job, error) {
	job, err := s.Repo.GetJob(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Job{}, ErrNotFound
		}
		return Job{}, fmt.Errorf("%w: get job: %w", ErrQueryFailed, err)
	}
	return job, nil
}

// ResumeObjectKey is the storage key for a resume submitted at ts.
func ResumeObjectKey(userID, jobID, fileName string, ts time.Time) string {
	return fmt.Sprintf("%s/%s_%d.%s", userID, jobID, ts.UnixMilli(), util.FileExtension(fileName, "pdf"))
}

// ApplyToJob uploads the resume and records a pending application. The
// upload must succeed before any row is inserted; an insert failure leaves the
// uploaded object in place.
func (s *Service) ApplyToJob(ctx context.Context, jobID string, file ResumeFile, coverLetter *string) error {
	identity, ok := s.Session.CurrentUser(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	start := time.Now()

	jobID = strings.TrimSpace(jobID)
	if jobID == "" || strings.ContainsAny(jobID, `/\`) {
		metrics.IncApplicationFailed(metrics.StageValidation)
		return fmt.Errorf("%w: job id is required", ErrValidationFailed)
	}
	if file.Empty() {
		metrics.IncApplicationFailed(metrics.StageValidation)
		return fmt.Errorf("%w: resume file is required", ErrValidationFailed)
	}

	now := s.now()
	key := ResumeObjectKey(identity.ID, jobID, file.Name, now)
	contentType := file.ContentType
	if contentType == "" {
		contentType = PDFContentType
	}
	size, err := s.Store.Upload(ctx, key, contentType, file.Reader())
	if err != nil {
		metrics.IncApplicationFailed(metrics.StageUpload)
		telemetry.Error("application.upload_failed", map[string]any{
			"user_id": identity.ID,
			"job_id":  jobID,
			"key":     key,
			"error":   err,
		})
		return fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	app := Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		UserID:      identity.ID,
		ResumeURL:   s.Store.PublicURL(key),
		CoverLetter: coverLetter,
		Status:      StatusPending,
		AppliedAt:   now,
	}
	if err := s.Repo.InsertApplication(ctx, app); err != nil {
		metrics.IncApplicationFailed(metrics.StagePersist)
		telemetry.Error("application.persist_failed", map[string]any{
			"user_id":       identity.ID,
			"job_id":        jobID,
			"orphaned_key":  key,
			"uploaded_size": size,
			"error":         err,
		})
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	metrics.IncApplicationSubmitted()
	metrics.ObserveApplyDurationMs(metrics.SinceMillis(start))
	telemetry.Info("application.submitted", map[string]any{
		"user_id":        identity.ID,
		"job_id":         jobID,
		"application_id": app.ID,
		"size_bytes":     size,
	})
	return nil
}

// ListUserApplications returns the caller's applications, newest first.
func (s *Service) ListUserApplications(ctx context.Context) ([]ApplicationWithJob, error) {
	identity, ok := s.Session.CurrentUser(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	out, err := s.Repo.ListApplicationsByUser(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list applications: %w", ErrQueryFailed, err)
	}
	if out == nil {
		out = []ApplicationWithJob{}
	}
	return out, nil
}
