package resumes

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"freshhire-backend/internal/jobs"
	"freshhire-backend/internal/session"
	"freshhire-backend/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid resume")

type Service struct {
	Repo     Repo
	Session  session.Source
	Validate *validator.Validate
}

func NewService(repo Repo, src session.Source) *Service {
	return &Service{Repo: repo, Session: src, Validate: validator.New()}
}

// Load returns the caller's resume. found is false when nothing was saved yet.
func (s *Service) Load(ctx context.Context) (res Resume, found bool, err error) {
	identity, ok := s.Session.CurrentUser(ctx)
	if !ok {
		return Resume{}, false, jobs.ErrUnauthenticated
	}
	res, err = s.Repo.GetByUser(ctx, identity.ID)
	if errors.Is(err, ErrNotFound) {
		return Resume{}, false, nil
	}
	if err != nil {
		return Resume{}, false, fmt.Errorf("%w: %w", jobs.ErrQueryFailed, err)
	}
	return res, true, nil
}

// Save replaces the caller's resume content.
func (s *Service) Save(ctx context.Context, in Input) (Resume, error) {
	identity, ok := s.Session.CurrentUser(ctx)
	if !ok {
		return Resume{}, jobs.ErrUnauthenticated
	}
	in = in.normalize()
	if err := s.Validate.Struct(in); err != nil {
		return Resume{}, fmt.Errorf("%w: %w: %v", jobs.ErrValidationFailed, ErrInvalidInput, err)
	}
	res, err := s.Repo.Upsert(ctx, Resume{
		UserID:       identity.ID,
		Title:        in.Title,
		PersonalInfo: in.PersonalInfo,
		Experience:   in.Experience,
		Education:    in.Education,
		Skills:       in.Skills,
		Projects:     in.Projects,
	})
	if err != nil {
		telemetry.Error("resume.save_failed", map[string]any{"user_id": identity.ID, "error": err})
		return Resume{}, fmt.Errorf("%w: %w", jobs.ErrPersistFailed, err)
	}
	telemetry.Info("resume.saved", map[string]any{"user_id": identity.ID, "resume_id": res.ID})
	return res, nil
}
