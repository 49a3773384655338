package schema

import (
	"errors"
	"net/http"
)

// Domain errors for schema registry operations.
var (
	ErrSchemaNotFound      = errors.New("schema not found for entity type")
	ErrInvalidDefinition   = errors.New("invalid schema definition")
	ErrDuplicateField      = errors.New("duplicate field name in schema definition")
	ErrDuplicateEntityType = errors.New("duplicate entity type in schema file")
)

// MapHTTPStatus maps schema domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrSchemaNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidDefinition) ||
		errors.Is(err, ErrDuplicateField) ||
		errors.Is(err, ErrDuplicateEntityType) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
