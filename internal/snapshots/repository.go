package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/internal/schema"
	"github.com/mosaic-works/tessera/pkg/pagination"
	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
)

type repo struct {
	db           *sql.DB
	registry     *schema.Registry
	observations ObservationSource
	logger       *slog.Logger
	pagination   pagination.Config

	// rebuilds serializes Rebuild per entity so concurrent runs touching
	// the same entity cannot interleave read-fold-write cycles.
	mu       sync.Mutex
	rebuilds map[uuid.UUID]*sync.Mutex
}

// New creates a snapshot repository implementing the System interface.
func New(
	db *sql.DB,
	registry *schema.Registry,
	observations ObservationSource,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:           db,
		registry:     registry,
		observations: observations,
		logger:       logger.With("system", "snapshots"),
		pagination:   pagination,
		rebuilds:     make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[EntitySnapshot], error) {
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
		return nil, fmt.Errorf("count snapshots: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSnapshot)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, entityID uuid.UUID) (*EntitySnapshot, error) {
	q, args := query.NewBuilder(projection).BuildSingle("EntityID", entityID)

	snap, err := repository.QueryOne(ctx, r.db, q, args, scanSnapshot)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &snap, nil
}

// Rebuild recomputes the entity's snapshot from its full observation
// history and upserts the result. Rebuilds for the same entity are
// serialized; rebuilds for different entities run concurrently.
func (r *repo) Rebuild(ctx context.Context, entityID uuid.UUID) (*EntitySnapshot, error) {
	lock := r.rebuildLock(entityID)
	lock.Lock()
	defer lock.Unlock()

	history, err := r.observations.ListForEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("load history for entity %s: %w", entityID, err)
	}

	if len(history) == 0 {
		return nil, fmt.Errorf("entity %s has no observations: %w", entityID, ErrNotFound)
	}

	def, err := r.registry.Get(history[0].EntityType)
	if err != nil {
		// The entity type was registered when its observations were
		// appended but is no longer. Fold with an empty field set so
		// the snapshot carries nothing the active schemas do not define.
		r.logger.Warn("rebuilding without schema definition",
			"entity_id", entityID,
			"entity_type", history[0].EntityType,
		)
		def = nil
	}

	snap := Build(entityID, def, history)

	fields, err := json.Marshal(snap.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot fields: %w", err)
	}

	contributing, err := json.Marshal(snap.Contributing)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot provenance: %w", err)
	}

	contributingIDs, err := json.Marshal(snap.ContributingIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot contributors: %w", err)
	}

	q := `
		INSERT INTO entity_snapshots(entity_id, entity_type, fields, contributing, contributing_ids, version, rebuilt_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (entity_id) DO UPDATE
		SET entity_type = EXCLUDED.entity_type,
		    fields = EXCLUDED.fields,
		    contributing = EXCLUDED.contributing,
		    contributing_ids = EXCLUDED.contributing_ids,
		    version = EXCLUDED.version,
		    rebuilt_at = NOW()
		RETURNING entity_id, entity_type, fields, contributing, contributing_ids, version, rebuilt_at`

	args := []any{entityID, snap.EntityType, fields, contributing, contributingIDs, snap.Version}

	stored, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (EntitySnapshot, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSnapshot)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("snapshot rebuilt",
		"entity_id", stored.EntityID,
		"entity_type", stored.EntityType,
		"version", stored.Version,
	)
	return &stored, nil
}

func (r *repo) rebuildLock(entityID uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.rebuilds[entityID]
	if !ok {
		lock = &sync.Mutex{}
		r.rebuilds[entityID] = lock
	}
	return lock
}
