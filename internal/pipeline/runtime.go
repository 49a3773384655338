package pipeline

import (
	"log/slog"

	"github.com/mosaic-works/tessera/internal/prompts"
	"github.com/mosaic-works/tessera/internal/schema"
	"github.com/mosaic-works/tessera/internal/sources"
	"github.com/mosaic-works/tessera/pkg/storage"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Runtime bundles the dependencies that pipeline nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Agent    gaconfig.AgentConfig
	Storage  storage.System
	Sources  sources.System
	Prompts  prompts.System
	Registry *schema.Registry
	Logger   *slog.Logger
}
