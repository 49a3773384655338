// Package observations implements the append-only observation store for
// tessera. An observation is one immutable, schema-validated fact record for
// one entity, produced by one interpretation run. Corrections are modeled as
// new observations; nothing here updates or deletes.
package observations

import (
	"time"

	"github.com/google/uuid"
)

// Observation is an immutable record of extracted fields for one entity.
// Seq is the store-assigned append order used for snapshot folding.
// EntityID is nil only for records appended before resolution linked them,
// which the coordinator never produces; it is kept nullable for fidelity
// with external writers.
type Observation struct {
	ID               uuid.UUID      `json:"id"`
	Seq              int64          `json:"seq"`
	InterpretationID uuid.UUID      `json:"interpretation_id"`
	SourceID         uuid.UUID      `json:"source_id"`
	EntityID         *uuid.UUID     `json:"entity_id"`
	EntityType       string         `json:"entity_type"`
	Fields           map[string]any `json:"fields"`
	CreatedAt        time.Time      `json:"created_at"`
}

// AppendCommand carries the data for appending one observation.
type AppendCommand struct {
	InterpretationID uuid.UUID
	SourceID         uuid.UUID
	EntityID         *uuid.UUID
	EntityType       string
	Fields           map[string]any
}
