package interpretations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/mosaic-works/tessera/internal/entities"
	"github.com/mosaic-works/tessera/internal/fragments"
	"github.com/mosaic-works/tessera/internal/mapper"
	"github.com/mosaic-works/tessera/internal/observations"
	"github.com/mosaic-works/tessera/internal/pipeline"
	"github.com/mosaic-works/tessera/internal/prompts"
	"github.com/mosaic-works/tessera/internal/schema"
	"github.com/mosaic-works/tessera/internal/snapshots"
	"github.com/mosaic-works/tessera/internal/sources"
	"github.com/mosaic-works/tessera/pkg/pagination"
	"github.com/mosaic-works/tessera/pkg/query"
	"github.com/mosaic-works/tessera/pkg/repository"
	"github.com/mosaic-works/tessera/pkg/storage"
)

type repo struct {
	db           *sql.DB
	coordinator  *Coordinator
	registry     *schema.Registry
	resolver     entities.Resolver
	observations observations.System
	fragments    fragments.System
	logger       *slog.Logger
	pagination   pagination.Config
}

type pipelineExtractor struct {
	rt *pipeline.Runtime
}

func (e *pipelineExtractor) Extract(ctx context.Context, sourceID uuid.UUID) (*pipeline.Result, error) {
	return pipeline.Execute(ctx, e.rt, sourceID)
}

// New creates an interpretation repository implementing the System
// interface. It internally constructs the pipeline runtime and the run
// coordinator from the provided dependencies.
func New(
	db *sql.DB,
	agent gaconfig.AgentConfig,
	logger *slog.Logger,
	pagination pagination.Config,
	storage storage.System,
	srcs sources.System,
	ps prompts.System,
	registry *schema.Registry,
	m *mapper.Mapper,
	resolver entities.Resolver,
	obs observations.System,
	frags fragments.System,
	snaps snapshots.System,
	extractionTimeout time.Duration,
) System {
	r := &repo{
		db:           db,
		registry:     registry,
		resolver:     resolver,
		observations: obs,
		fragments:    frags,
		logger:       logger.With("system", "interpretations"),
		pagination:   pagination,
	}

	extractor := &pipelineExtractor{
		rt: &pipeline.Runtime{
			Agent:    agent,
			Storage:  storage,
			Sources:  srcs,
			Prompts:  ps,
			Registry: registry,
			Logger:   logger.With("pipeline", "extract"),
		},
	}

	r.coordinator = NewCoordinator(
		r,
		extractor,
		m,
		registry,
		r,
		snaps,
		extractionTimeout,
		logger,
	)

	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Interpretation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Reason", "SchemaVersion")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count interpretations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanInterpretation)
	if err != nil {
		return nil, fmt.Errorf("query interpretations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Interpretation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	i, err := repository.QueryOne(ctx, r.db, q, args, scanInterpretation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

func (r *repo) ListForSource(ctx context.Context, sourceID uuid.UUID) ([]Interpretation, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("SourceID", sourceID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanInterpretation)
	if err != nil {
		return nil, fmt.Errorf("query interpretations for source %s: %w", sourceID, err)
	}
	return items, nil
}

func (r *repo) Interpret(ctx context.Context, sourceID uuid.UUID) (*Interpretation, error) {
	return r.coordinator.Run(ctx, sourceID)
}

// Begin inserts the audit row for a new run after verifying the source
// exists. Every run is recorded from this point on, successful or not.
func (r *repo) Begin(ctx context.Context, sourceID uuid.UUID, schemaVersion string) (*Interpretation, error) {
	var exists bool
	if err := r.db.QueryRowContext(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM sources WHERE id = $1)",
		sourceID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check source: %w", err)
	}
	if !exists {
		return nil, ErrSourceNotFound
	}

	q := `
		INSERT INTO interpretations(id, source_id, schema_version)
		VALUES ($1, $2, $3)
		RETURNING id, source_id, schema_version, status, reason,
				  observations_created, fragments_created, started_at, completed_at`

	args := []any{uuid.New(), sourceID, schemaVersion}

	i, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Interpretation, error) {
		return repository.QueryOne(ctx, tx, q, args, scanInterpretation)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("interpretation started",
		"id", i.ID,
		"source_id", sourceID,
		"schema_version", schemaVersion,
	)
	return &i, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE interpretations SET status = $1 WHERE id = $2",
			status, id,
		)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE interpretations SET status = 'failed', reason = $1, completed_at = NOW() WHERE id = $2",
			reason, id,
		)
		return struct{}{}, err
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID, obs, frags int) (*Interpretation, error) {
	q := `
		UPDATE interpretations
		SET status = 'done', observations_created = $1, fragments_created = $2, completed_at = NOW()
		WHERE id = $3
		RETURNING id, source_id, schema_version, status, reason,
				  observations_created, fragments_created, started_at, completed_at`

	i, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Interpretation, error) {
		return repository.QueryOne(ctx, tx, q, []any{obs, frags, id}, scanInterpretation)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &i, nil
}

// Persist writes a run's entire output in one transaction: entity
// resolution, observation appends, and fragment quarantine. Either the
// whole run's output commits or none of it does.
func (r *repo) Persist(
	ctx context.Context,
	run *Interpretation,
	mapped []MappedCandidate,
) (*PersistResult, error) {
	return repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*PersistResult, error) {
		result := &PersistResult{}
		seen := make(map[uuid.UUID]bool)

		for _, mc := range mapped {
			if len(mc.Fields) > 0 {
				def, err := r.registry.Get(mc.EntityType)
				if err != nil {
					return nil, fmt.Errorf("schema for %s: %w", mc.EntityType, err)
				}

				resolution, err := r.resolver.Resolve(ctx, tx, def, mc.Fields)
				if err != nil {
					return nil, fmt.Errorf("resolve entity for %s: %w", mc.EntityType, err)
				}

				entityID := resolution.EntityID
				_, err = r.observations.Append(ctx, tx, observations.AppendCommand{
					InterpretationID: run.ID,
					SourceID:         run.SourceID,
					EntityID:         &entityID,
					EntityType:       mc.EntityType,
					Fields:           mc.Fields,
				})
				if err != nil {
					return nil, fmt.Errorf("append observation: %w", err)
				}

				result.ObservationsCreated++
				if !seen[entityID] {
					seen[entityID] = true
					result.EntityIDs = append(result.EntityIDs, entityID)
				}
			}

			guess := mc.EntityType
			for _, q := range mc.Quarantined {
				_, err := r.fragments.Append(ctx, tx, fragments.AppendCommand{
					InterpretationID: run.ID,
					SourceID:         run.SourceID,
					FragmentKey:      q.Key,
					FragmentValue:    q.Value,
					EntityTypeGuess:  &guess,
					Disposition:      q.Disposition,
				})
				if err != nil {
					return nil, fmt.Errorf("append fragment %q: %w", q.Key, err)
				}

				result.FragmentsCreated++
			}
		}

		return result, nil
	})
}
