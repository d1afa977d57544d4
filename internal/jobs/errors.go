package jobs

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrValidationFailed = errors.New("validation failed")
	ErrUploadFailed     = errors.New("upload failed")
	ErrPersistFailed    = errors.New("persist failed")
	ErrQueryFailed      = errors.New("query failed")
	ErrNotFound         = errors.New("not found")
)

// HTTPStatus maps a data access error to an HTTP status and error code.
func HTTPStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, ErrValidationFailed):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUploadFailed):
		return http.StatusBadGateway, "upload_failed"
	case errors.Is(err, ErrPersistFailed):
		return http.StatusInternalServerError, "persist_failed"
	case errors.Is(err, ErrQueryFailed):
		return http.StatusInternalServerError, "query_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
