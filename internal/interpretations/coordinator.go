package interpretations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mosaic-works/tessera/internal/fragments"
	"github.com/mosaic-works/tessera/internal/mapper"
	"github.com/mosaic-works/tessera/internal/pipeline"
	"github.com/mosaic-works/tessera/internal/schema"
	"github.com/mosaic-works/tessera/internal/snapshots"
)

// Extractor produces candidate entity blocks for a source.
type Extractor interface {
	Extract(ctx context.Context, sourceID uuid.UUID) (*pipeline.Result, error)
}

// Store manages the audit row lifecycle for interpretation runs.
type Store interface {
	Begin(ctx context.Context, sourceID uuid.UUID, schemaVersion string) (*Interpretation, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
	Complete(ctx context.Context, id uuid.UUID, observations, frags int) (*Interpretation, error)
}

// Persister writes a run's observations and fragments in one transaction.
type Persister interface {
	Persist(ctx context.Context, run *Interpretation, mapped []MappedCandidate) (*PersistResult, error)
}

// Rebuilder recomputes an entity's snapshot from its observation history.
type Rebuilder interface {
	Rebuild(ctx context.Context, entityID uuid.UUID) (*snapshots.EntitySnapshot, error)
}

// QuarantinedPair is one key/value pair bound for the raw fragment sink.
type QuarantinedPair struct {
	Key         string
	Value       any
	Disposition fragments.Disposition
}

// MappedCandidate is the mapping outcome for one candidate block.
// EntityType always names a registered schema, because a block whose
// guessed type matches no schema fails the whole run instead of mapping.
type MappedCandidate struct {
	EntityType  string
	Fields      map[string]any
	Quarantined []QuarantinedPair
}

// PersistResult reports what one persist transaction wrote.
type PersistResult struct {
	ObservationsCreated int
	FragmentsCreated    int
	EntityIDs           []uuid.UUID
}

// Coordinator drives a run through its phases: extracting, mapping,
// persisting, snapshot rebuild. Runs for the same source are serialized;
// runs for different sources proceed concurrently. Once a run reaches
// the persisting phase it is immune to caller cancellation, so a run
// never commits half its output.
type Coordinator struct {
	store     Store
	extractor Extractor
	mapper    *mapper.Mapper
	registry  *schema.Registry
	persister Persister
	snapshots Rebuilder
	timeout   time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	sources map[uuid.UUID]*sync.Mutex
}

// NewCoordinator assembles a Coordinator from its collaborators.
func NewCoordinator(
	store Store,
	extractor Extractor,
	m *mapper.Mapper,
	registry *schema.Registry,
	persister Persister,
	snaps Rebuilder,
	timeout time.Duration,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		store:     store,
		extractor: extractor,
		mapper:    m,
		registry:  registry,
		persister: persister,
		snapshots: snaps,
		timeout:   timeout,
		logger:    logger.With("system", "coordinator"),
		sources:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// Run executes one interpretation for the source. The audit row is
// created before extraction starts and always reaches a terminal
// status: done with counts, or failed with a reason.
func (c *Coordinator) Run(ctx context.Context, sourceID uuid.UUID) (*Interpretation, error) {
	lock := c.sourceLock(sourceID)
	lock.Lock()
	defer lock.Unlock()

	run, err := c.store.Begin(ctx, sourceID, c.registry.Version())
	if err != nil {
		return nil, fmt.Errorf("begin run for source %s: %w", sourceID, err)
	}

	result, err := c.extract(ctx, run)
	if err != nil {
		return nil, c.fail(ctx, run, err)
	}

	if err := c.store.SetStatus(ctx, run.ID, StatusMapping); err != nil {
		return nil, c.fail(ctx, run, fmt.Errorf("enter mapping: %w", err))
	}

	mapped, err := c.mapCandidates(result.Candidates)
	if err != nil {
		return nil, c.fail(ctx, run, err)
	}

	// Last cancellation point. From here the run commits or fails on
	// its own terms, not the caller's.
	if err := ctx.Err(); err != nil {
		return nil, c.fail(ctx, run, fmt.Errorf("canceled before persist: %w", err))
	}
	pctx := context.WithoutCancel(ctx)

	if err := c.store.SetStatus(pctx, run.ID, StatusPersisting); err != nil {
		return nil, c.fail(pctx, run, fmt.Errorf("enter persisting: %w", err))
	}

	persisted, err := c.persister.Persist(pctx, run, mapped)
	if err != nil {
		return nil, c.fail(pctx, run, fmt.Errorf("persist: %w", err))
	}

	// Observations are committed at this point; the snapshot is derived
	// state rebuilt from full history on the next run that touches the
	// entity, so a rebuild failure must not fail the run or understate
	// what was persisted.
	if err := c.rebuildSnapshots(pctx, persisted.EntityIDs); err != nil {
		c.logger.Error("rebuild snapshots",
			"id", run.ID,
			"source_id", sourceID,
			"error", err,
		)
	}

	done, err := c.store.Complete(
		pctx, run.ID,
		persisted.ObservationsCreated,
		persisted.FragmentsCreated,
	)
	if err != nil {
		return nil, c.fail(pctx, run, fmt.Errorf("complete run: %w", err))
	}

	c.logger.Info("interpretation complete",
		"id", done.ID,
		"source_id", sourceID,
		"observations_created", done.ObservationsCreated,
		"fragments_created", done.FragmentsCreated,
	)
	return done, nil
}

func (c *Coordinator) extract(ctx context.Context, run *Interpretation) (*pipeline.Result, error) {
	if err := c.store.SetStatus(ctx, run.ID, StatusExtracting); err != nil {
		return nil, fmt.Errorf("enter extracting: %w", err)
	}

	exCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		exCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.extractor.Extract(exCtx, run.SourceID)
	if err != nil {
		return nil, fmt.Errorf("extract source %s: %w", run.SourceID, err)
	}

	return result, nil
}

// mapCandidates resolves every candidate block against the schema
// registry, splitting known blocks into validated fields and quarantined
// pairs. A block whose guessed entity type matches no schema fails the
// run before anything is persisted: field-level anomalies are absorbed
// into fragments, but an unknown type means the extraction output as a
// whole cannot be trusted against this schema version. Candidate order
// is preserved, so the observations a run appends are deterministic for
// a given extraction output.
func (c *Coordinator) mapCandidates(candidates []pipeline.EntityCandidate) ([]MappedCandidate, error) {
	mapped := make([]MappedCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		result, err := c.mapper.Map(candidate.EntityType, candidate.Fields)
		if err != nil {
			return nil, fmt.Errorf("map candidate %q: %w", candidate.EntityType, err)
		}

		mapped = append(mapped, MappedCandidate{
			EntityType:  candidate.EntityType,
			Fields:      result.Fields,
			Quarantined: collectQuarantined(result),
		})
	}

	return mapped, nil
}

func (c *Coordinator) rebuildSnapshots(ctx context.Context, entityIDs []uuid.UUID) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, entityID := range entityIDs {
		g.Go(func() error {
			if _, err := c.snapshots.Rebuild(gctx, entityID); err != nil {
				return fmt.Errorf("entity %s: %w", entityID, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// fail records the terminal failure on the audit row. The write runs on
// a cancellation-immune context so a canceled run still leaves a failed
// row behind.
func (c *Coordinator) fail(ctx context.Context, run *Interpretation, cause error) error {
	fctx := context.WithoutCancel(ctx)
	if err := c.store.Fail(fctx, run.ID, cause.Error()); err != nil {
		c.logger.Error("record run failure",
			"id", run.ID,
			"cause", cause,
			"error", err,
		)
	}

	c.logger.Warn("interpretation failed",
		"id", run.ID,
		"source_id", run.SourceID,
		"reason", cause,
	)
	return cause
}

func (c *Coordinator) sourceLock(sourceID uuid.UUID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.sources[sourceID]
	if !ok {
		lock = &sync.Mutex{}
		c.sources[sourceID] = lock
	}
	return lock
}

func collectQuarantined(result *mapper.Result) []QuarantinedPair {
	var pairs []QuarantinedPair
	for _, p := range result.Unmatched {
		pairs = append(pairs, QuarantinedPair{Key: p.Key, Value: p.Value, Disposition: fragments.DispositionUnmatched})
	}
	for _, p := range result.Suspect {
		pairs = append(pairs, QuarantinedPair{Key: p.Key, Value: p.Value, Disposition: fragments.DispositionSuspect})
	}
	for _, p := range result.Failed {
		pairs = append(pairs, QuarantinedPair{Key: p.Key, Value: p.Value, Disposition: fragments.DispositionCoercionFailed})
	}
	return pairs
}
