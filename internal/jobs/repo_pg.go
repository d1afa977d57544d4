package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, title, company, location, salary, type, description, skills, logo, is_remote, is_urgent, experience_level, created_at`

// foreignKeyViolation is the Postgres SQLSTATE for a failed FK check.
const foreignKeyViolation = "23503"

func (r *PGRepo) ListJobs(ctx context.Context, filters Filters) ([]Job, error) {
	query, args := buildListJobsQuery(filters)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildListJobsQuery(filters Filters) (string, []any) {
	var (
		where []string
		args  []any
	)
	if loc, ok := filters.LocationFilter(); ok {
		args = append(args, loc)
		where = append(where, fmt.Sprintf("location = $%d", len(args)))
	}
	if jt, ok := filters.JobTypeFilter(); ok {
		args = append(args, jt)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filters.RemoteOnly {
		where = append(where, "is_remote = TRUE")
	}
	if q := filters.SearchTerm(); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR company ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}

	var b strings.Builder
	b.WriteString("SELECT " + jobColumns + " FROM jobs")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC")
	return b.String(), args
}

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PGRepo) GetJob(ctx context.Context, id string) (Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Job{}, ErrNotFound
	}
	row := r.DB.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) UpsertJob(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, title, company, location, salary, type, description, skills, logo, is_remote, is_urgent, experience_level, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13, now()))
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  company = EXCLUDED.company,
  location = EXCLUDED.location,
  salary = EXCLUDED.salary,
  type = EXCLUDED.type,
  description = EXCLUDED.description,
  skills = EXCLUDED.skills,
  logo = EXCLUDED.logo,
  is_remote = EXCLUDED.is_remote,
  is_urgent = EXCLUDED.is_urgent,
  experience_level = EXCLUDED.experience_level`

	var createdAt sql.NullTime
	if !job.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: job.CreatedAt, Valid: true}
	}
	skills := job.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := r.DB.ExecContext(ctx, query,
		job.ID, job.Title, job.Company, job.Location, job.Salary, job.Type, job.Description,
		pq.Array(skills), job.Logo, job.IsRemote, job.IsUrgent, job.ExperienceLevel, createdAt,
	)
	return err
}

func (r *PGRepo) InsertApplication(ctx context.Context, app Application) error {
	const query = `
INSERT INTO job_applications (id, job_id, user_id, resume_url, cover_letter, status, applied_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var coverLetter sql.NullString
	if app.CoverLetter != nil {
		coverLetter = sql.NullString{String: *app.CoverLetter, Valid: true}
	}
	if _, err := uuid.Parse(app.JobID); err != nil {
		return ErrJobMissing
	}
	_, err := r.DB.ExecContext(ctx, query,
		app.ID, app.JobID, app.UserID, app.ResumeURL, coverLetter, string(app.Status), app.AppliedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("%w: %s", ErrJobMissing, pgErr.ConstraintName)
		}
		return err
	}
	return nil
}

func (r *PGRepo) ListApplicationsByUser(ctx context.Context, userID string) ([]ApplicationWithJob, error) {
	const query = `
SELECT a.id, a.job_id, a.user_id, a.resume_url, a.cover_letter, a.status, a.applied_at,
       j.title, j.company, j.location
FROM job_applications a
JOIN jobs j ON j.id = a.job_id
WHERE a.user_id = $1
ORDER BY a.applied_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ApplicationWithJob{}
	for rows.Next() {
		var (
			item        ApplicationWithJob
			coverLetter sql.NullString
			status      string
		)
		if err := rows.Scan(
			&item.ID, &item.JobID, &item.UserID, &item.ResumeURL, &coverLetter, &status, &item.AppliedAt,
			&item.Job.Title, &item.Job.Company, &item.Job.Location,
		); err != nil {
			return nil, err
		}
		if coverLetter.Valid {
			cl := coverLetter.String
			item.CoverLetter = &cl
		}
		item.Status = Status(status)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var (
		job       Job
		skills    pq.StringArray
		createdAt time.Time
	)
	if err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.Salary, &job.Type, &job.Description,
		&skills, &job.Logo, &job.IsRemote, &job.IsUrgent, &job.ExperienceLevel, &createdAt,
	); err != nil {
		return Job{}, err
	}
	job.Skills = []string(skills)
	if job.Skills == nil {
		job.Skills = []string{}
	}
	job.CreatedAt = createdAt
	return job, nil
}

var _ Repo = (*PGRepo)(nil)
