package fragments

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/pagination"
	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a raw fragment repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "fragments"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[RawFragment], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "FragmentKey")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count raw fragments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanFragment)
	if err != nil {
		return nil, fmt.Errorf("query raw fragments: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*RawFragment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFragment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) ListForSource(ctx context.Context, sourceID uuid.UUID) ([]RawFragment, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SourceID", sourceID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanFragment)
	if err != nil {
		return nil, fmt.Errorf("query raw fragments for source %s: %w", sourceID, err)
	}
	return items, nil
}

// Append quarantines one pair within the caller's transaction.
func (r *repo) Append(ctx context.Context, tx *sql.Tx, cmd AppendCommand) (*RawFragment, error) {
	if cmd.FragmentKey == "" {
		return nil, ErrEmptyKey
	}

	switch cmd.Disposition {
	case DispositionUnmatched, DispositionSuspect, DispositionCoercionFailed:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDisposition, cmd.Disposition)
	}

	value, err := json.Marshal(cmd.FragmentValue)
	if err != nil {
		return nil, fmt.Errorf("marshal fragment value: %w", err)
	}

	q := `
		INSERT INTO raw_fragments(id, interpretation_id, source_id, fragment_key, fragment_value, entity_type_guess, disposition)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, interpretation_id, source_id, fragment_key, fragment_value, entity_type_guess, disposition, created_at`

	insertArgs := []any{
		uuid.New(),
		cmd.InterpretationID,
		cmd.SourceID,
		cmd.FragmentKey,
		value,
		cmd.EntityTypeGuess,
		cmd.Disposition,
	}

	f, err := repository.QueryOne(ctx, tx, q, insertArgs, scanFragment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &f, nil
}
