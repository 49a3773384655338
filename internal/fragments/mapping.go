package fragments

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "raw_fragments", "f").
	Project("id", "ID").
	Project("interpretation_id", "InterpretationID").
	Project("source_id", "SourceID").
	Project("fragment_key", "FragmentKey").
	Project("fragment_value", "FragmentValue").
	Project("entity_type_guess", "EntityTypeGuess").
	Project("disposition", "Disposition").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for fragment queries.
type Filters struct {
	SourceID         *uuid.UUID   `json:"source_id,omitempty"`
	InterpretationID *uuid.UUID   `json:"interpretation_id,omitempty"`
	Disposition      *Disposition `json:"disposition,omitempty"`
	EntityTypeGuess  *string      `json:"entity_type_guess,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("SourceID", f.SourceID).
		WhereEquals("InterpretationID", f.InterpretationID).
		WhereEquals("Disposition", f.Disposition).
		WhereEquals("EntityTypeGuess", f.EntityTypeGuess)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

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

	if v := values.Get("disposition"); v != "" {
		d := Disposition(v)
		f.Disposition = &d
	}

	if v := values.Get("entity_type_guess"); v != "" {
		f.EntityTypeGuess = &v
	}

	return f
}

func scanFragment(s repository.Scanner) (RawFragment, error) {
	var (
		f     RawFragment
		value []byte
	)

	err := s.Scan(
		&f.ID,
		&f.InterpretationID,
		&f.SourceID,
		&f.FragmentKey,
		&value,
		&f.EntityTypeGuess,
		&f.Disposition,
		&f.CreatedAt,
	)
	if err != nil {
		return f, err
	}

	if err := json.Unmarshal(value, &f.FragmentValue); err != nil {
		return f, err
	}

	return f, nil
}
