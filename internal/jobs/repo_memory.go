package jobs

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Job
	apps []Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]Job)}
}

func (r *MemoryRepo) ListJobs(ctx context.Context, filters Filters) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if filters.Matches(job) {
			out = append(out, cloneJob(job))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetJob(ctx context.Context, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return cloneJob(job), nil
}

func (r *MemoryRepo) UpsertJob(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.CreatedAt.IsZero() {
		if existing, ok := r.jobs[job.ID]; ok {
			job.CreatedAt = existing.CreatedAt
		} else {
			job.CreatedAt = time.Now().UTC()
		}
	}
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *MemoryRepo) InsertApplication(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[app.JobID]; !ok {
		return ErrJobMissing
	}
	r.apps = append(r.apps, app)
	return nil
}

func (r *MemoryRepo) ListApplicationsByUser(ctx context.Context, userID string) ([]ApplicationWithJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []ApplicationWithJob{}
	for _, app := range r.apps {
		if app.UserID != userID {
			continue
		}
		job := r.jobs[app.JobID]
		out = append(out, ApplicationWithJob{
			Application: app,
			Job:         JobSummary{Title: job.Title, Company: job.Company, Location: job.Location},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out, nil
}

func cloneJob(job Job) Job {
	skills := make([]string, len(job.Skills))
	copy(skills, job.Skills)
	job.Skills = skills
	return job
}

var _ Repo = (*MemoryRepo)(nil)
