package main

import (
	"encoding/json"
	"net/http"

	"github.com/mosaic-works/tessera/internal/api"
	"github.com/mosaic-works/tessera/internal/config"
	"github.com/mosaic-works/tessera/internal/infrastructure"
	"github.com/mosaic-works/tessera/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

// buildRouter creates the root router with the health and readiness
// probes registered outside any module prefix.
func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, http.StatusOK, "ok")
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			respondStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		respondStatus(w, http.StatusOK, "ready")
	})

	return router
}

func respondStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
