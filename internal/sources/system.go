package sources

import (
	"context"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/pagination"
)

// System defines the public contract for source domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Source], error)

	Find(ctx context.Context, id uuid.UUID) (*Source, error)
	Create(ctx context.Context, cmd CreateCommand) (*Source, error)
	RegisterText(ctx context.Context, cmd RegisterTextCommand) (*Source, error)
	Content(ctx context.Context, id uuid.UUID) (*Content, error)
}
