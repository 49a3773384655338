// Package entities implements the entity registry for tessera.
// An entity is the real-world subject observations accumulate against.
// Entity rows are created during interpretation persistence by the
// resolution policy and are never updated afterward.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Entity represents a registered real-world entity.
// Fingerprint is the identity hash used by the default resolution policy;
// nil when the entity was created without identity field values.
type Entity struct {
	ID          uuid.UUID `json:"id"`
	EntityType  string    `json:"entity_type"`
	Fingerprint *string   `json:"fingerprint,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
