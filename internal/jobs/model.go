package jobs

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
)

// Job types as stored on postings.
const (
	TypeFullTime   = "full-time"
	TypePartTime   = "part-time"
	TypeInternship = "internship"
	TypeContract   = "contract"
)

// FilterAll is the sentinel selection that disables a filter.
const FilterAll = "all"

// Job is an employer-posted opening. Clients only ever read jobs.
type Job struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Salary          string    `json:"salary"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	Skills          []string  `json:"skills"`
	Logo            string    `json:"logo"`
	IsRemote        bool      `json:"isRemote"`
	IsUrgent        bool      `json:"isUrgent"`
	ExperienceLevel string    `json:"experienceLevel"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Filters narrows ListJobs. Zero values disable each filter.
type Filters struct {
	Location   string
	Industry   string
	JobType    string
	MinSalary  int
	Search     string
	RemoteOnly bool
}

func selected(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, FilterAll) {
		return "", false
	}
	return v, true
}

// LocationFilter returns the location equality value, if active.
func (f Filters) LocationFilter() (string, bool) { return selected(f.Location) }

// JobTypeFilter returns the job type equality value, if active.
func (f Filters) JobTypeFilter() (string, bool) { return selected(f.JobType) }

// SearchTerm returns the trimmed free-text query.
func (f Filters) SearchTerm() string { return strings.TrimSpace(f.Search) }

// Matches reports whether job satisfies every active filter.
func (f Filters) Matches(job Job) bool {
	if loc, ok := f.LocationFilter(); ok && job.Location != loc {
		return false
	}
	if jt, ok := f.JobTypeFilter(); ok && job.Type != jt {
		return false
	}
	if f.RemoteOnly && !job.IsRemote {
		return false
	}
	if q := f.SearchTerm(); q != "" {
		q = strings.ToLower(q)
		if !strings.Contains(strings.ToLower(job.Title), q) &&
			!strings.Contains(strings.ToLower(job.Company), q) &&
			!strings.Contains(strings.ToLower(job.Description), q) {
			return false
		}
	}
	return true
}

// Status is the reviewer-managed state of an application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusInterview Status = "interview"
	StatusRejected  Status = "rejected"
	StatusHired     Status = "hired"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusInterview, StatusRejected, StatusHired:
		return true
	}
	return false
}

// Application is one submission of a resume against a job.
type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	UserID      string    `json:"userId"`
	ResumeURL   string    `json:"resumeUrl"`
	CoverLetter *string   `json:"coverLetter,omitempty"`
	Status      Status    `json:"status"`
	AppliedAt   time.Time `json:"appliedAt"`
}

// JobSummary is the denormalized job snapshot shown next to an application.
type JobSummary struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
}

// ApplicationWithJob is an application joined with its job.
type ApplicationWithJob struct {
	Application
	Job JobSummary `json:"job"`
}

// PDFContentType is the only resume content type accepted.
const PDFContentType = "application/pdf"

// ResumeFile is an in-memory resume upload.
type ResumeFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// IsPDF reports whether the declared content type is PDF.
func (f ResumeFile) IsPDF() bool {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct == PDFContentType
}

// Empty reports whether no file content is present.
func (f ResumeFile) Empty() bool { return len(f.Data) == 0 }

// Reader returns a fresh reader over the file content.
func (f ResumeFile) Reader() io.Reader { return bytes.NewReader(f.Data) }

// MaxResumeBytes caps resume uploads.
const MaxResumeBytes = 10 << 20

// ValidateResumeFile checks the declared content type and size of a resume.
func ValidateResumeFile(f ResumeFile) error {
	if f.Empty() {
		return fmt.Errorf("%w: resume file is required", ErrValidationFailed)
	}
	if !f.IsPDF() {
		return fmt.Errorf("%w: please upload a PDF file", ErrValidationFailed)
	}
	if len(f.Data) > MaxResumeBytes {
		return fmt.Errorf("%w: resume exceeds %d bytes", ErrValidationFailed, MaxResumeBytes)
	}
	return nil
}
