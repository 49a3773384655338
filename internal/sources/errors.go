package sources

import (
	"errors"
	"net/http"
)

// Domain errors for source operations.
var (
	ErrNotFound     = errors.New("source not found")
	ErrDuplicate    = errors.New("source already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid source file")
	ErrEmptyContent = errors.New("source content must not be empty")
)

// MapHTTPStatus maps source domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) || errors.Is(err, ErrEmptyContent) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
