package interpretations

import (
	"errors"
	"net/http"

	"github.com/mosaic-works/tessera/internal/pipeline"
	"github.com/mosaic-works/tessera/internal/schema"
)

// Domain errors for interpretation operations.
var (
	ErrNotFound       = errors.New("interpretation not found")
	ErrDuplicate      = errors.New("interpretation already exists")
	ErrSourceNotFound = errors.New("source not found")
)

// MapHTTPStatus maps interpretation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSourceNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, pipeline.ErrExtractionFailed) || errors.Is(err, pipeline.ErrMalformedOutput) {
		return http.StatusBadGateway
	}
	if errors.Is(err, schema.ErrSchemaNotFound) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
