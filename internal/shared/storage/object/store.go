package object

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"
)

// ErrInvalidKey is returned for keys that would escape the bucket.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore defines the contract for storing and retrieving binary objects
// in a single bucket.
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	PublicURL(key string) string
}

// CleanKey normalizes a slash-separated key and rejects traversal.
func CleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.Contains(trimmed, "..") || strings.Contains(trimmed, "\\") {
		return "", ErrInvalidKey
	}
	clean := strings.TrimLeft(path.Clean("/"+trimmed), "/")
	if clean == "" {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// JoinURL appends an escaped key to a base URL.
func JoinURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
