package observations

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "observations", "o").
	Project("id", "ID").
	Project("seq", "Seq").
	Project("interpretation_id", "InterpretationID").
	Project("source_id", "SourceID").
	Project("entity_id", "EntityID").
	Project("entity_type", "EntityType").
	Project("fields", "Fields").
	Project("created_at", "CreatedAt")

// History folds oldest first, so the default sort is ascending append order.
var defaultSort = query.SortField{
	Field:      "Seq",
	Descending: false,
}

// Filters contains optional filtering criteria for observation queries.
type Filters struct {
	EntityID         *uuid.UUID `json:"entity_id,omitempty"`
	SourceID         *uuid.UUID `json:"source_id,omitempty"`
	InterpretationID *uuid.UUID `json:"interpretation_id,omitempty"`
	EntityType       *string    `json:"entity_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("EntityID", f.EntityID).
		WhereEquals("SourceID", f.SourceID).
		WhereEquals("InterpretationID", f.InterpretationID).
		WhereEquals("EntityType", f.EntityType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("entity_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.EntityID = &id
		}
	}

	if v := values.Get("source_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.SourceID = &id
		}
	}

	if v := values.Get("interpretation_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.InterpretationID = &id
		}
	}

	if v := values.Get("entity_type"); v != "" {
		f.EntityType = &v
	}

	return f
}

func scanObservation(s repository.Scanner) (Observation, error) {
	var (
		o      Observation
		fields []byte
	)

	err := s.Scan(
		&o.ID,
		&o.Seq,
		&o.InterpretationID,
		&o.SourceID,
		&o.EntityID,
		&o.EntityType,
		&fields,
		&o.CreatedAt,
	)
	if err != nil {
		return o, err
	}

	if err := json.Unmarshal(fields, &o.Fields); err != nil {
		return o, err
	}

	return o, nil
}
