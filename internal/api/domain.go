package api

import (
	"fmt"

	"github.com/mosaic-works/tessera/internal/entities"
	"github.com/mosaic-works/tessera/internal/fragments"
	"github.com/mosaic-works/tessera/internal/interpretations"
	"github.com/mosaic-works/tessera/internal/mapper"
	"github.com/mosaic-works/tessera/internal/observations"
	"github.com/mosaic-works/tessera/internal/prompts"
	"github.com/mosaic-works/tessera/internal/schema"
	"github.com/mosaic-works/tessera/internal/snapshots"
	"github.com/mosaic-works/tessera/internal/sources"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Registry        *schema.Registry
	Sources         sources.System
	Prompts         prompts.System
	Entities        entities.System
	Observations    observations.System
	Fragments       fragments.System
	Snapshots       snapshots.System
	Interpretations interpretations.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	registry, err := schema.Load(runtime.Interpreter.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("load schema registry: %w", err)
	}

	db := runtime.Database.Connection()

	sourcesSystem := sources.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(db, runtime.Logger, runtime.Pagination)
	entitiesSystem := entities.New(db, runtime.Logger, runtime.Pagination)
	observationsSystem := observations.New(db, runtime.Logger, runtime.Pagination)
	fragmentsSystem := fragments.New(db, runtime.Logger, runtime.Pagination)

	snapshotsSystem := snapshots.New(
		db,
		registry,
		observationsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	interpretationsSystem := interpretations.New(
		db,
		runtime.Agent,
		runtime.Logger,
		runtime.Pagination,
		runtime.Storage,
		sourcesSystem,
		promptsSystem,
		registry,
		mapper.New(registry, runtime.Interpreter.Denylist),
		entities.NewFingerprintResolver(),
		observationsSystem,
		fragmentsSystem,
		snapshotsSystem,
		runtime.Interpreter.ExtractionTimeoutDuration(),
	)

	return &Domain{
		Registry:        registry,
		Sources:         sourcesSystem,
		Prompts:         promptsSystem,
		Entities:        entitiesSystem,
		Observations:    observationsSystem,
		Fragments:       fragmentsSystem,
		Snapshots:       snapshotsSystem,
		Interpretations: interpretationsSystem,
	}, nil
}
