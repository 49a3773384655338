package observations

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

// New creates an observation repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "observations"),
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
) (*pagination.PageResult[Observation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "EntityType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count observations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanObservation)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Observation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	o, err := repository.QueryOne(ctx, r.db, q, args, scanObservation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &o, nil
}

func (r *repo) ListForEntity(ctx context.Context, entityID uuid.UUID) ([]Observation, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("EntityID", entityID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanObservation)
	if err != nil {
		return nil, fmt.Errorf("query observations for entity %s: %w", entityID, err)
	}
	return items, nil
}

func (r *repo) ListForSource(ctx context.Context, sourceID uuid.UUID) ([]Observation, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SourceID", sourceID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanObservation)
	if err != nil {
		return nil, fmt.Errorf("query observations for source %s: %w", sourceID, err)
	}
	return items, nil
}

// Append inserts one observation within the caller's transaction.
// The store assigns the id and append sequence; the record is immutable
// from this point on.
func (r *repo) Append(ctx context.Context, tx *sql.Tx, cmd AppendCommand) (*Observation, error) {
	if len(cmd.Fields) == 0 {
		return nil, ErrEmptyFields
	}

	fields, err := json.Marshal(cmd.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshal observation fields: %w", err)
	}

	q := `
		INSERT INTO observations(id, interpretation_id, source_id, entity_id, entity_type, fields)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, seq, interpretation_id, source_id, entity_id, entity_type, fields, created_at`

	insertArgs := []any{
		uuid.New(),
		cmd.InterpretationID,
		cmd.SourceID,
		cmd.EntityID,
		cmd.EntityType,
		fields,
	}

	o, err := repository.QueryOne(ctx, tx, q, insertArgs, scanObservation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &o, nil
}
