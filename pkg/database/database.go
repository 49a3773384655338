// Package database provides PostgreSQL connection management with lifecycle coordination.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mosaic-works/tessera/pkg/lifecycle"
)

// System manages database connections and lifecycle coordination.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type pool struct {
	db          *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a database system with the given configuration. sql.Open
// validates the DSN and sets pool limits; no connection is made until
// the lifecycle startup hook pings the server.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &pool{
		db:          db,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (p *pool) Connection() *sql.DB {
	return p.db
}

func (p *pool) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting database connection")

	lc.OnStartup(func() {
		if err := p.ping(lc.Context()); err != nil {
			p.logger.Error("database ping failed", "error", err)
			return
		}

		p.logger.Info("database connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.logger.Info("closing database connection")

		if err := p.db.Close(); err != nil {
			p.logger.Error("database close failed", "error", err)
			return
		}

		p.logger.Info("database connection closed")
	})

	return nil
}

func (p *pool) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, p.connTimeout)
	defer cancel()

	return p.db.PingContext(pingCtx)
}
