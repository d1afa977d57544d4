package util

import (
	"errors"
	"path"
	"strings"
)

// SanitizeFileName removes path separators and rejects names with a ".."
// path segment. Dots inside a segment are kept.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	for _, seg := range strings.FieldsFunc(s, isSeparator) {
		if seg == ".." {
			return "", errors.New("invalid file name")
		}
	}
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

func isSeparator(r rune) bool { return r == '/' || r == '\\' }

// FileExtension returns the lowercased extension of name without the dot.
// Names without an extension yield fallback.
func FileExtension(name, fallback string) string {
	ext := strings.TrimPrefix(path.Ext(strings.TrimSpace(name)), ".")
	if ext == "" || strings.ContainsAny(ext, "/\\ ") {
		return fallback
	}
	return strings.ToLower(ext)
}
