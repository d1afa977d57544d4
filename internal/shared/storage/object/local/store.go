package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"freshhire-backend/internal/shared/storage/object"
)

// Store implements ObjectStore on the local filesystem, one directory per bucket.
type Store struct {
	baseDir   string
	publicURL string
}

// New creates a local object store rooted at baseDir/bucket. Objects are
// publicly addressed under publicBaseURL/storage/v1/object/public/<bucket>.
func New(baseDir, bucket, publicBaseURL string) *Store {
	return &Store{
		baseDir:   filepath.Join(baseDir, bucket),
		publicURL: PublicPrefix(publicBaseURL, bucket),
	}
}

// PublicPrefix returns the URL prefix under which a bucket's objects are served.
func PublicPrefix(publicBaseURL, bucket string) string {
	return object.JoinURL(publicBaseURL, "storage/v1/object/public/"+bucket)
}

// Upload writes the reader to disk at key, replacing any existing object. A
// failed write leaves no file behind.
func (s *Store) Upload(ctx context.Context, key string, _ string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("close file: %w", err)
	}
	return written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// PublicURL returns the retrievable URL for key.
func (s *Store) PublicURL(key string) string {
	clean, err := object.CleanKey(key)
	if err != nil {
		clean = key
	}
	return object.JoinURL(s.publicURL, clean)
}

func (s *Store) resolve(key string) (string, error) {
	clean, err := object.CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}

var _ object.ObjectStore = (*Store)(nil)
