package snapshots

import (
	"context"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/internal/observations"
	"github.com/mosaic-works/tessera/pkg/pagination"
)

// ObservationSource supplies the observation history a rebuild folds.
type ObservationSource interface {
	ListForEntity(ctx context.Context, entityID uuid.UUID) ([]observations.Observation, error)
}

// System defines the public contract for the snapshot store.
// Snapshots are derived state: Rebuild is the only write path, and it
// recomputes the snapshot from the entity's full observation history.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[EntitySnapshot], error)

	Find(ctx context.Context, entityID uuid.UUID) (*EntitySnapshot, error)
	Rebuild(ctx context.Context, entityID uuid.UUID) (*EntitySnapshot, error)
}
