package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshhire-backend/internal/shared/storage/object"
)

func TestUploadOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir(), "resumes", "http://localhost:8080")
	ctx := context.Background()

	n, err := store.Upload(ctx, "user-1/job-1_1.pdf", "application/pdf", bytes.NewReader([]byte("%PDF-1.4 fake")))
	require.NoError(t, err)
	assert.EqualValues(t, 13, n)

	rc, err := store.Open(ctx, "user-1/job-1_1.pdf")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestUploadRejectsTraversal(t *testing.T) {
	store := New(t.TempDir(), "resumes", "http://localhost:8080")
	_, err := store.Upload(context.Background(), "../outside.pdf", "application/pdf", bytes.NewReader(nil))
	require.ErrorIs(t, err, object.ErrInvalidKey)
}

func TestUploadHonorsCancelledContext(t *testing.T) {
	store := New(t.TempDir(), "resumes", "http://localhost:8080")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Upload(ctx, "user-1/a.pdf", "application/pdf", bytes.NewReader(nil))
	require.ErrorIs(t, err, context.Canceled)
}

func TestPublicURL(t *testing.T) {
	store := New(t.TempDir(), "resumes", "http://localhost:8080/")
	assert.Equal(t,
		"http://localhost:8080/storage/v1/object/public/resumes/user-1/job-1_1.pdf",
		store.PublicURL("user-1/job-1_1.pdf"),
	)
}

type brokenReader struct{ sent bool }

func (b *brokenReader) Read(p []byte) (int, error) {
	if b.sent {
		return 0, errors.New("connection reset")
	}
	b.sent = true
	return copy(p, "%PDF-1.4 partial"), nil
}

func TestUploadFailedWriteLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, "resumes", "http://localhost:8080")

	_, err := store.Upload(context.Background(), "user-1/job-1_1.pdf", "application/pdf", &brokenReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write body")

	_, statErr := os.Stat(filepath.Join(dir, "resumes", "user-1", "job-1_1.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}
