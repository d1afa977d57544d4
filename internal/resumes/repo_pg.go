package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, title, personal_info, experience, education, skills, projects, created_at, updated_at`

func (r *PGRepo) GetByUser(ctx context.Context, userID string) (Resume, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return Resume{}, ErrNotFound
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM resumes WHERE user_id = $1`, userID)
	return scanResume(row)
}

func (r *PGRepo) Upsert(ctx context.Context, resume Resume) (Resume, error) {
	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}
	personal, err := marshalJSONB(resume.PersonalInfo, "{}")
	if err != nil {
		return Resume{}, err
	}
	experience, err := marshalJSONB(resume.Experience, "[]")
	if err != nil {
		return Resume{}, err
	}
	education, err := marshalJSONB(resume.Education, "[]")
	if err != nil {
		return Resume{}, err
	}
	skills, err := marshalJSONB(resume.Skills, "[]")
	if err != nil {
		return Resume{}, err
	}
	projects, err := marshalJSONB(resume.Projects, "[]")
	if err != nil {
		return Resume{}, err
	}

	query := `
INSERT INTO resumes (id, user_id, title, personal_info, experience, education, skills, projects, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
    title = EXCLUDED.title,
    personal_info = EXCLUDED.personal_info,
    experience = EXCLUDED.experience,
    education = EXCLUDED.education,
    skills = EXCLUDED.skills,
    projects = EXCLUDED.projects,
    updated_at = now()
RETURNING ` + selectColumns
	row := r.DB.QueryRowContext(ctx, query,
		resume.ID, resume.UserID, resume.Title,
		personal, experience, education, skills, projects,
	)
	return scanResume(row)
}

func scanResume(row *sql.Row) (Resume, error) {
	var (
		res                                               Resume
		personal, experience, education, skills, projects []byte
	)
	err := row.Scan(&res.ID, &res.UserID, &res.Title,
		&personal, &experience, &education, &skills, &projects,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	sections := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"personal_info", personal, &res.PersonalInfo},
		{"experience", experience, &res.Experience},
		{"education", education, &res.Education},
		{"skills", skills, &res.Skills},
		{"projects", projects, &res.Projects},
	}
	for _, s := range sections {
		if len(s.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(s.raw, s.dst); err != nil {
			return Resume{}, fmt.Errorf("decode %s: %w", s.name, err)
		}
	}
	return res, nil
}

func marshalJSONB(value any, empty string) ([]byte, error) {
	if value == nil {
		return []byte(empty), nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return []byte(empty), nil
	}
	return b, nil
}

var _ Repo = (*PGRepo)(nil)
