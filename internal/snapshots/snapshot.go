// Package snapshots implements folded entity state for tessera.
// A snapshot is a pure function of an entity's observation history:
// it is rebuilt from scratch after every interpretation run that touches
// the entity, never patched incrementally, so a rebuild from the same
// history always produces the same snapshot.
package snapshots

import (
	"time"

	"github.com/google/uuid"
)

// EntitySnapshot is the current folded state of one entity.
// Version counts the observations folded in; Contributing records,
// per field, the observation that supplied the winning value, and
// ContributingIDs lists every observation that won at least one
// surviving field, in append order.
type EntitySnapshot struct {
	EntityID        uuid.UUID            `json:"entity_id"`
	EntityType      string               `json:"entity_type"`
	Fields          map[string]any       `json:"fields"`
	Contributing    map[string]uuid.UUID `json:"contributing"`
	ContributingIDs []uuid.UUID          `json:"contributing_observation_ids"`
	Version         int                  `json:"version"`
	RebuiltAt       time.Time            `json:"rebuilt_at"`
}
