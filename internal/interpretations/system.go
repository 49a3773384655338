package interpretations

import (
	"context"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/pagination"
)

// System defines the public contract for interpretation domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Interpretation], error)

	Find(ctx context.Context, id uuid.UUID) (*Interpretation, error)
	ListForSource(ctx context.Context, sourceID uuid.UUID) ([]Interpretation, error)
	Interpret(ctx context.Context, sourceID uuid.UUID) (*Interpretation, error)
}
