package snapshots

import (
	"encoding/json"
	"net/url"

	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "entity_snapshots", "es").
	Project("entity_id", "EntityID").
	Project("entity_type", "EntityType").
	Project("fields", "Fields").
	Project("contributing", "Contributing").
	Project("contributing_ids", "ContributingIDs").
	Project("version", "Version").
	Project("rebuilt_at", "RebuiltAt")

var defaultSort = query.SortField{
	Field:      "RebuiltAt",
	Descending: true,
}

// Filters contains optional filtering criteria for snapshot queries.
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

	if v := values.Get("entity_type"); v != "" {
		f.EntityType = &v
	}

	return f
}

func scanSnapshot(s repository.Scanner) (EntitySnapshot, error) {
	var (
		snap            EntitySnapshot
		fields          []byte
		contributing    []byte
		contributingIDs []byte
	)

	err := s.Scan(
		&snap.EntityID,
		&snap.EntityType,
		&fields,
		&contributing,
		&contributingIDs,
		&snap.Version,
		&snap.RebuiltAt,
	)
	if err != nil {
		return snap, err
	}

	if err := json.Unmarshal(fields, &snap.Fields); err != nil {
		return snap, err
	}

	if err := json.Unmarshal(contributing, &snap.Contributing); err != nil {
		return snap, err
	}

	if err := json.Unmarshal(contributingIDs, &snap.ContributingIDs); err != nil {
		return snap, err
	}

	return snap, nil
}
