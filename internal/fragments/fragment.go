// Package fragments implements the raw-fragment quarantine for tessera.
// A raw fragment is a candidate key/value pair that an interpretation run
// could not place in a schema field: no match, a placeholder denylist hit,
// or a coercion failure. Fragments are read-only after creation; promotion
// into new schema fields happens through an external schema-evolution
// process that only reads this store.
package fragments

import (
	"time"

	"github.com/google/uuid"
)

// Disposition classifies why a pair was quarantined.
type Disposition string

// Valid dispositions.
const (
	// DispositionUnmatched marks pairs whose key matched no schema field
	// or synonym.
	DispositionUnmatched Disposition = "unmatched"
	// DispositionSuspect marks pairs whose key matched but whose value hit
	// the placeholder denylist.
	DispositionSuspect Disposition = "suspect"
	// DispositionCoercionFailed marks pairs whose key matched but whose
	// value could not be coerced to the field's semantic type.
	DispositionCoercionFailed Disposition = "coercion_failed"
)

// RawFragment is one quarantined key/value pair.
// EntityTypeGuess records which entity block the pair arrived in; it is a
// hint for promotion tooling, not a validated reference.
type RawFragment struct {
	ID               uuid.UUID   `json:"id"`
	InterpretationID uuid.UUID   `json:"interpretation_id"`
	SourceID         uuid.UUID   `json:"source_id"`
	FragmentKey      string      `json:"fragment_key"`
	FragmentValue    any         `json:"fragment_value"`
	EntityTypeGuess  *string     `json:"entity_type_guess"`
	Disposition      Disposition `json:"disposition"`
	CreatedAt        time.Time   `json:"created_at"`
}

// AppendCommand carries the data for quarantining one pair.
type AppendCommand struct {
	InterpretationID uuid.UUID
	SourceID         uuid.UUID
	FragmentKey      string
	FragmentValue    any
	EntityTypeGuess  *string
	Disposition      Disposition
}
