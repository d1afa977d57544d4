package resumes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]Resume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]Resume)}
}

func (r *MemoryRepo) GetByUser(ctx context.Context, userID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.byUser[userID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return cloneResume(res), nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.byUser[resume.UserID]; ok {
		resume.ID = existing.ID
		resume.CreatedAt = existing.CreatedAt
	} else {
		if resume.ID == "" {
			resume.ID = uuid.NewString()
		}
		resume.CreatedAt = now
	}
	resume.UpdatedAt = now
	r.byUser[resume.UserID] = cloneResume(resume)
	return resume, nil
}

func cloneResume(in Resume) Resume {
	out := in
	out.Experience = append([]Experience{}, in.Experience...)
	out.Education = append([]Education{}, in.Education...)
	out.Skills = append([]string{}, in.Skills...)
	out.Projects = append([]Project{}, in.Projects...)
	return out
}

var _ Repo = (*MemoryRepo)(nil)
