package api

import (
	"github.com/mosaic-works/tessera/internal/config"
	"github.com/mosaic-works/tessera/internal/infrastructure"
	"github.com/mosaic-works/tessera/pkg/pagination"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent       gaconfig.AgentConfig
	Interpreter config.InterpreterConfig
	Pagination  pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Agent:       cfg.Agent,
		Interpreter: cfg.Interpreter,
		Pagination:  cfg.API.Pagination,
	}
}
