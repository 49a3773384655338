package fragments

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mosaic-works/tessera/pkg/handlers"
	"github.com/mosaic-works/tessera/pkg/pagination"
	"github.com/mosaic-works/tessera/pkg/routes"
)

// Handler provides read-only HTTP endpoints for the quarantine.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "fragments"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for fragment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/fragments",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/sources/{sourceId}", Handler: h.ListForSource},
		},
	}
}

// List returns a paginated list of fragments with optional query parameter filters.
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

// Find returns a single fragment by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	f, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, f)
}

// ListForSource returns all fragments quarantined from a source.
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
