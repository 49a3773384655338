// Package interpretations implements the interpretation run domain for
// tessera. An interpretation run takes one registered source through
// extraction, schema mapping, and persistence, producing observations,
// quarantined raw fragments, and rebuilt entity snapshots. Every run is
// recorded as an audit row whether it succeeds or fails.
package interpretations

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle phase of an interpretation run.
type Status string

// Run lifecycle. Status only moves forward; done and failed are terminal.
const (
	StatusPending    Status = "pending"
	StatusExtracting Status = "extracting"
	StatusMapping    Status = "mapping"
	StatusPersisting Status = "persisting"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// Interpretation is the audit record for one run. SchemaVersion pins the
// registry version the run mapped against; Reason carries the failure
// cause for failed runs and is nil otherwise.
type Interpretation struct {
	ID                  uuid.UUID  `json:"id"`
	SourceID            uuid.UUID  `json:"source_id"`
	SchemaVersion       string     `json:"schema_version"`
	Status              Status     `json:"status"`
	Reason              *string    `json:"reason"`
	ObservationsCreated int        `json:"observations_created"`
	FragmentsCreated    int        `json:"fragments_created"`
	StartedAt           time.Time  `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at"`
}
