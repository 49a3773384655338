package observations

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/handlers"
	"github.com/mosaic-works/tessera/pkg/pagination"
	"github.com/mosaic-works/tessera/pkg/routes"
)

// Handler provides HTTP endpoints for inspecting the observation history.
// All endpoints are read-only; observations are written exclusively by
// interpretation runs.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "observations"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for observation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/observations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/entities/{entityId}", Handler: h.ListForEntity},
			{Method: "GET", Pattern: "/sources/{sourceId}", Handler: h.ListForSource},
		},
	}
}

// List returns a paginated list of observations with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single observation by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	o, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, o)
}

// ListForEntity returns an entity's full observation history, oldest first.
func (h *Handler) ListForEntity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("entityId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	items, err := h.sys.ListForEntity(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// ListForSource returns all observations produced from a source, oldest first.
func (h *Handler) ListForSource(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("sourceId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	items, err := h.sys.ListForSource(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}
