package resumes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshhire-backend/internal/jobs"
	"freshhire-backend/internal/session"
)

var testUser = session.Static{Identity: session.Identity{ID: "u-1", Email: "a@b.com"}}

func TestSaveTrimsSkillsAndUpserts(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, testUser)
	ctx := context.Background()

	_, found, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	first, err := svc.Save(ctx, Input{
		Skills:       []string{" Go ", "", "  ", "SQL"},
		PersonalInfo: PersonalInfo{Name: "Asha", Email: "a@b.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, first.Skills)
	assert.Equal(t, DefaultTitle, first.Title)
	assert.NotNil(t, first.Experience)

	second, err := svc.Save(ctx, Input{Title: "Backend", Skills: []string{"Rust"}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	loaded, found, err := svc.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Backend", loaded.Title)
	assert.Equal(t, []string{"Rust"}, loaded.Skills)
}

func TestSaveRequiresSignIn(t *testing.T) {
	svc := NewService(NewMemoryRepo(), session.Static{})
	_, err := svc.Save(context.Background(), Input{})
	require.ErrorIs(t, err, jobs.ErrUnauthenticated)
	_, _, err = svc.Load(context.Background())
	require.ErrorIs(t, err, jobs.ErrUnauthenticated)
}

func TestSaveValidatesEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo(), testUser)
	_, err := svc.Save(context.Background(), Input{PersonalInfo: PersonalInfo{Email: "nope"}})
	require.ErrorIs(t, err, jobs.ErrValidationFailed)
	require.ErrorIs(t, err, ErrInvalidInput)
}

type failingRepo struct{ *MemoryRepo }

func (failingRepo) Upsert(context.Context, Resume) (Resume, error) {
	return Resume{}, errors.New("db down")
}

func TestSaveWrapsPersistFailure(t *testing.T) {
	svc := NewService(failingRepo{MemoryRepo: NewMemoryRepo()}, testUser)
	_, err := svc.Save(context.Background(), Input{})
	require.ErrorIs(t, err, jobs.ErrPersistFailed)
}
