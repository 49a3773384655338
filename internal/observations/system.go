package observations

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/pagination"
)

// System defines the public contract for the observation store.
// The write contract is append-only: Append runs inside the caller's
// persist transaction and there is no update or delete operation.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Observation], error)

	Find(ctx context.Context, id uuid.UUID) (*Observation, error)
	ListForEntity(ctx context.Context, entityID uuid.UUID) ([]Observation, error)
	ListForSource(ctx context.Context, sourceID uuid.UUID) ([]Observation, error)
	Append(ctx context.Context, tx *sql.Tx, cmd AppendCommand) (*Observation, error)
}
