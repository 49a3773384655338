package fragments

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/pagination"
)

// System defines the public contract for the raw fragment sink.
// Append runs inside the caller's persist transaction; everything else
// is read-only inspection for schema evolution tooling.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[RawFragment], error)

	Find(ctx context.Context, id uuid.UUID) (*RawFragment, error)
	ListForSource(ctx context.Context, sourceID uuid.UUID) ([]RawFragment, error)
	Append(ctx context.Context, tx *sql.Tx, cmd AppendCommand) (*RawFragment, error)
}
