package snapshots

import (
	"errors"
	"net/http"
)

// Domain errors for snapshot operations.
var (
	ErrNotFound  = errors.New("entity snapshot not found")
	ErrDuplicate = errors.New("entity snapshot already exists")
)

// MapHTTPStatus maps snapshot domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
