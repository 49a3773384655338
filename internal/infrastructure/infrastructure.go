// Package infrastructure assembles the shared dependencies that domain
// systems require: lifecycle coordination, logging, database access, and
// blob storage.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mosaic-works/tessera/internal/config"
	"github.com/mosaic-works/tessera/pkg/database"
	"github.com/mosaic-works/tessera/pkg/lifecycle"
	"github.com/mosaic-works/tessera/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New creates an Infrastructure from the application configuration.
// Systems are initialized but not started; call Start to register
// their lifecycle hooks.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers the database and storage systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start database: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("start storage: %w", err)
	}
	return nil
}
