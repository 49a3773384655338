package api

import (
	"net/http"

	"github.com/mosaic-works/tessera/internal/config"
	"github.com/mosaic-works/tessera/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Sources.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Entities.Handler().Routes(),
		domain.Observations.Handler().Routes(),
		domain.Fragments.Handler().Routes(),
		domain.Snapshots.Handler().Routes(),
		domain.Interpretations.Handler().Routes(),
	)
}
