package entities

import (
	"context"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/pagination"
)

// System defines the public contract for entity domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entity], error)

	Find(ctx context.Context, id uuid.UUID) (*Entity, error)
}
