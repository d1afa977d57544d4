// Package wizard implements the three-step job application flow: personal
// info, resume and cover letter, then review and submit.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"freshhire-backend/internal/jobs"
	"freshhire-backend/internal/session"
)

// Step is a wizard state.
type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepResume
	StepReview
	StepSubmitted
	StepCancelled
)

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "personal_info"
	case StepResume:
		return "resume"
	case StepReview:
		return "review"
	case StepSubmitted:
		return "submitted"
	case StepCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Terminal reports whether no further transitions are possible.
func (s Step) Terminal() bool { return s == StepSubmitted || s == StepCancelled }

var (
	ErrSubmitInFlight    = errors.New("submission already in progress")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrDraftClosed       = errors.New("draft is closed")
)

// User-facing guard messages.
const (
	MsgPersonalInfoRequired = "Please fill in your name and email."
	MsgSignInRequired       = "Please sign in to apply for jobs."
	MsgResumeRequired       = "Please upload your resume."
	MsgResumeNotPDF         = "Please upload a PDF file."
)

// ValidationError is a failed guard. It unwraps to jobs.ErrValidationFailed
// or jobs.ErrUnauthenticated.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(msg string) error {
	return &ValidationError{Message: msg, Err: jobs.ErrValidationFailed}
}

// PersonalInfo is the step one form.
type PersonalInfo struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone"`
}

func (p PersonalInfo) normalized() PersonalInfo {
	return PersonalInfo{
		Name:  strings.TrimSpace(p.Name),
		Email: strings.TrimSpace(p.Email),
		Phone: strings.TrimSpace(p.Phone),
	}
}

// Applier submits a completed application.
type Applier interface {
	ApplyToJob(ctx context.Context, jobID string, file jobs.ResumeFile, coverLetter *string) error
}

// Wizard holds one in-memory draft. It is safe for concurrent use.
type Wizard struct {
	mu          sync.Mutex
	jobID       string
	step        Step
	info        PersonalInfo
	resume      *jobs.ResumeFile
	coverLetter string
	submitting  bool

	applier Applier
	session session.Source
}

var validate = validator.New()

// New starts a wizard for jobID at the personal info step.
func New(jobID string, applier Applier, src session.Source) *Wizard {
	return &Wizard{
		jobID:   jobID,
		step:    StepPersonalInfo,
		applier: applier,
		session: src,
	}
}

// Draft is a point-in-time copy of the wizard state.
type Draft struct {
	JobID        string
	Step         Step
	PersonalInfo PersonalInfo
	Resume       *jobs.ResumeFile
	CoverLetter  string
	IsSubmitting bool
	CanAdvance   bool
	CanSubmit    bool
}

// Snapshot returns the current draft state.
func (w *Wizard) Snapshot() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	d := Draft{
		JobID:        w.jobID,
		Step:         w.step,
		PersonalInfo: w.info,
		CoverLetter:  w.coverLetter,
		IsSubmitting: w.submitting,
		CanAdvance:   w.canAdvanceLocked(),
		CanSubmit:    w.canSubmitLocked(),
	}
	if w.resume != nil {
		r := *w.resume
		d.Resume = &r
	}
	return d
}

// Step returns the current state.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// SetPersonalInfo replaces the personal info form.
func (w *Wizard) SetPersonalInfo(info PersonalInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step.Terminal() {
		return ErrDraftClosed
	}
	w.info = info.normalized()
	return nil
}

// SetCoverLetter replaces the cover letter text.
func (w *Wizard) SetCoverLetter(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step.Terminal() {
		return ErrDraftClosed
	}
	w.coverLetter = text
	return nil
}

// SelectResume accepts a PDF file. Anything else is rejected and the
// previously accepted file is kept.
func (w *Wizard) SelectResume(file jobs.ResumeFile) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step.Terminal() {
		return ErrDraftClosed
	}
	if !file.IsPDF() {
		return invalid(MsgResumeNotPDF)
	}
	if err := jobs.ValidateResumeFile(file); err != nil {
		return &ValidationError{Message: strings.TrimPrefix(err.Error(), jobs.ErrValidationFailed.Error()+": "), Err: jobs.ErrValidationFailed}
	}
	f := file
	f.Data = append([]byte(nil), file.Data...)
	w.resume = &f
	return nil
}

// CaptureVoice appends a recognized utterance to the cover letter. When
// speech is unavailable or fails, the cover letter is untouched and a notice
// is returned instead.
func (w *Wizard) CaptureVoice(ctx context.Context, sp Speech) (notice string, err error) {
	if w.Step().Terminal() {
		return "", ErrDraftClosed
	}
	transcript, capErr := sp.Capture(ctx)
	if capErr != nil {
		return VoiceUnsupportedNotice, nil
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step.Terminal() {
		return "", ErrDraftClosed
	}
	w.coverLetter = appendTranscript(w.coverLetter, transcript)
	return "", nil
}

func appendTranscript(existing, transcript string) string {
	if strings.TrimSpace(existing) == "" {
		return existing + transcript
	}
	if strings.HasSuffix(existing, " ") {
		return existing + transcript
	}
	return existing + " " + transcript
}

// CanAdvance reports whether Next is enabled.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canAdvanceLocked()
}

func (w *Wizard) canAdvanceLocked() bool {
	switch w.step {
	case StepPersonalInfo:
		return validate.Struct(w.info) == nil
	case StepResume:
		return true
	}
	return false
}

// CanSubmit reports whether the submit control is enabled.
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked()
}

func (w *Wizard) canSubmitLocked() bool {
	return w.step == StepReview && !w.submitting
}

// Next moves forward one step. Leaving step one requires name and email;
// leaving step two is unconditional.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepPersonalInfo:
		if !w.canAdvanceLocked() {
			return invalid(MsgPersonalInfoRequired)
		}
		w.step = StepResume
		return nil
	case StepResume:
		w.step = StepReview
		return nil
	}
	if w.step.Terminal() {
		return ErrDraftClosed
	}
	return fmt.Errorf("%w: next from %s", ErrInvalidTransition, w.step)
}

// Back moves to the previous step without validation.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepResume:
		w.step = StepPersonalInfo
		return nil
	case StepReview:
		w.step = StepResume
		return nil
	}
	if w.step.Terminal() {
		return ErrDraftClosed
	}
	return fmt.Errorf("%w: back from %s", ErrInvalidTransition, w.step)
}

// Cancel closes the draft from any open step. A submit already in flight is
// not interrupted; its outcome no longer moves the wizard.
func (w *Wizard) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step.Terminal() {
		return ErrDraftClosed
	}
	w.step = StepCancelled
	w.resume = nil
	return nil
}

// Submit checks, in order, that a user is signed in, a resume is attached and
// name and email are filled, then applies. On failure the wizard stays on the
// step the user is on and may be resubmitted from review. Back and Cancel stay
// available while the apply runs.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.step.Terminal():
		w.mu.Unlock()
		return ErrDraftClosed
	case w.step != StepReview:
		w.mu.Unlock()
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, w.step)
	case w.submitting:
		w.mu.Unlock()
		return ErrSubmitInFlight
	}

	if _, ok := w.session.CurrentUser(ctx); !ok {
		w.mu.Unlock()
		return &ValidationError{Message: MsgSignInRequired, Err: jobs.ErrUnauthenticated}
	}
	if w.resume == nil {
		w.mu.Unlock()
		return invalid(MsgResumeRequired)
	}
	if validate.Struct(w.info) != nil {
		w.mu.Unlock()
		return invalid(MsgPersonalInfoRequired)
	}

	w.submitting = true
	jobID := w.jobID
	file := *w.resume
	var coverLetter *string
	if strings.TrimSpace(w.coverLetter) != "" {
		cl := w.coverLetter
		coverLetter = &cl
	}
	w.mu.Unlock()

	err := w.applier.ApplyToJob(ctx, jobID, file, coverLetter)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		return err
	}
	if w.step != StepCancelled {
		w.step = StepSubmitted
	}
	w.resume = nil
	return nil
}
