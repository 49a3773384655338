package interpretations

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "interpretations", "i").
	Project("id", "ID").
	Project("source_id", "SourceID").
	Project("schema_version", "SchemaVersion").
	Project("status", "Status").
	Project("reason", "Reason").
	Project("observations_created", "ObservationsCreated").
	Project("fragments_created", "FragmentsCreated").
	Project("started_at", "StartedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "StartedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for interpretation queries.
type Filters struct {
	SourceID      *uuid.UUID `json:"source_id,omitempty"`
	Status        *Status    `json:"status,omitempty"`
	SchemaVersion *string    `json:"schema_version,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SourceID", f.SourceID).
		WhereEquals("Status", f.Status).
		WhereEquals("SchemaVersion", f.SchemaVersion)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("source_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.SourceID = &id
		}
	}

	if v := values.Get("status"); v != "" {
		s := Status(v)
		f.Status = &s
	}

	if v := values.Get("schema_version"); v != "" {
		f.SchemaVersion = &v
	}

	return f
}

func scanInterpretation(s repository.Scanner) (Interpretation, error) {
	var i Interpretation
	err := s.Scan(
		&i.ID,
		&i.SourceID,
		&i.SchemaVersion,
		&i.Status,
		&i.Reason,
		&i.ObservationsCreated,
		&i.FragmentsCreated,
		&i.StartedAt,
		&i.CompletedAt,
	)
	return i, err
}
