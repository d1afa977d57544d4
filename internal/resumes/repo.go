package resumes

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("resume not found")

type Repo interface {
	GetByUser(ctx context.Context, userID string) (Resume, error)
	// Upsert updates the user's resume in place or inserts it.
	Upsert(ctx context.Context, resume Resume) (Resume, error)
}

func trim(s string) string { return strings.TrimSpace(s) }
