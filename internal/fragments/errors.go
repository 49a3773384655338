package fragments

import (
	"errors"
	"net/http"
)

// Domain errors for raw fragment operations.
var (
	ErrNotFound           = errors.New("raw fragment not found")
	ErrDuplicate          = errors.New("raw fragment already exists")
	ErrEmptyKey           = errors.New("raw fragment key must not be empty")
	ErrInvalidDisposition = errors.New("invalid raw fragment disposition")
)

// MapHTTPStatus maps fragment domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidDisposition) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
