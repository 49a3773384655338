package observations

import (
	"errors"
	"net/http"
)

// Domain errors for observation operations.
var (
	ErrNotFound    = errors.New("observation not found")
	ErrDuplicate   = errors.New("observation already exists")
	ErrEmptyFields = errors.New("observation must carry at least one field")
)

// MapHTTPStatus maps observation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyFields) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
