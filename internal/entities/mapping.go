package entities

import (
	"net/url"

	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "entities", "e").
	Project("id", "ID").
	Project("entity_type", "EntityType").
	Project("fingerprint", "Fingerprint").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for entity queries.
type Filters struct {
	EntityType *string `json:"entity_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("EntityType", f.EntityType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if et := values.Get("entity_type"); et != "" {
		f.EntityType = &et
	}

	return f
}

func scanEntity(s repository.Scanner) (Entity, error) {
	var e Entity
	err := s.Scan(
		&e.ID,
		&e.EntityType,
		&e.Fingerprint,
		&e.CreatedAt,
	)
	return e, err
}
