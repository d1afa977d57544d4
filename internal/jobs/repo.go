package jobs

import (
	"context"
	"errors"
)

// ErrJobMissing is returned by repositories when an application references
// a job that does not exist.
var ErrJobMissing = errors.New("referenced job does not exist")

// Repo is the relational store behind the data access layer. Implementations
// return ErrNotFound for missing rows and raw errors otherwise.
type Repo interface {
	ListJobs(ctx context.Context, filters Filters) ([]Job, error)
	GetJob(ctx context.Context, id string) (Job, error)
	UpsertJob(ctx context.Context, job Job) error
	InsertApplication(ctx context.Context, app Application) error
	ListApplicationsByUser(ctx context.Context, userID string) ([]ApplicationWithJob, error)
}
