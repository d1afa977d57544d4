package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"freshhire-backend/internal/shared/telemetry"
)

// catalogNamespace derives stable ids for catalog entries without one, so a
// re-import updates instead of duplicating.
var catalogNamespace = uuid.MustParse("8b8f8f0e-4a4c-4f59-9d7e-2f0b6c1d5a10")

// CatalogEntry is one job in a YAML catalog file.
type CatalogEntry struct {
	ID              string     `yaml:"id" validate:"omitempty,uuid"`
	Title           string     `yaml:"title" validate:"required"`
	Company         string     `yaml:"company" validate:"required"`
	Location        string     `yaml:"location" validate:"required"`
	Salary          string     `yaml:"salary"`
	Type            string     `yaml:"type" validate:"required,oneof=full-time part-time internship contract"`
	Description     string     `yaml:"description"`
	Skills          []string   `yaml:"skills"`
	Logo            string     `yaml:"logo"`
	Remote          bool       `yaml:"remote"`
	Urgent          bool       `yaml:"urgent"`
	ExperienceLevel string     `yaml:"experienceLevel"`
	PostedAt        *time.Time `yaml:"postedAt"`
}

// Catalog is the root of a catalog file.
type Catalog struct {
	Jobs []CatalogEntry `yaml:"jobs" validate:"dive"`
}

// Importer loads job catalogs into the store. It stands in for the external
// job-posting process; clients never write jobs.
type Importer struct {
	Repo     Repo
	Validate *validator.Validate
}

// NewImporter constructs an Importer.
func NewImporter(repo Repo) *Importer {
	return &Importer{Repo: repo, Validate: validator.New()}
}

// ParseCatalog decodes and validates a catalog.
func (i *Importer) ParseCatalog(r io.Reader) ([]Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var catalog Catalog
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return []Job{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := i.Validate.Struct(catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	out := make([]Job, 0, len(catalog.Jobs))
	for _, entry := range catalog.Jobs {
		out = append(out, entry.toJob())
	}
	return out, nil
}

// Import upserts every job in the catalog and returns how many were written.
func (i *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	jobs, err := i.ParseCatalog(r)
	if err != nil {
		return 0, err
	}
	for n, job := range jobs {
		if err := i.Repo.UpsertJob(ctx, job); err != nil {
			return n, fmt.Errorf("upsert job %q: %w", job.Title, err)
		}
	}
	telemetry.Info("jobs.imported", map[string]any{"count": len(jobs)})
	return len(jobs), nil
}

func (e CatalogEntry) toJob() Job {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		id = uuid.NewSHA1(catalogNamespace, []byte(e.Title+"\x00"+e.Company+"\x00"+e.Location)).String()
	}
	skills := make([]string, 0, len(e.Skills))
	for _, s := range e.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	job := Job{
		ID:              id,
		Title:           strings.TrimSpace(e.Title),
		Company:         strings.TrimSpace(e.Company),
		Location:        strings.TrimSpace(e.Location),
		Salary:          e.Salary,
		Type:            e.Type,
		Description:     e.Description,
		Skills:          skills,
		Logo:            e.Logo,
		IsRemote:        e.Remote,
		IsUrgent:        e.Urgent,
		ExperienceLevel: e.ExperienceLevel,
	}
	if e.PostedAt != nil {
		job.CreatedAt = e.PostedAt.UTC()
	}
	return job
}
