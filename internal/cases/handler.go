package cases

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/pkg/handlers"
	"github.com/JaimeStill/verum/pkg/middleware"
	"github.com/JaimeStill/verum/pkg/pagination"
	"github.com/JaimeStill/verum/pkg/routes"
)

// Handler provides HTTP endpoints for case operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	pagination  pagination.Config
	maxBodySize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination config, and body size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxBodySize int64,
) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "cases"),
		pagination:  pagination,
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for case endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Tags:   []string{"Cases"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, Summary: "List cases"},
			{Method: "POST", Pattern: "", Handler: h.Create, Summary: "Open a case"},
			{Method: "POST", Pattern: "/search", Handler: h.Search, Summary: "Search cases"},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, Summary: "Find a case"},
			{Method: "POST", Pattern: "/{id}/status", Handler: h.Transition, Summary: "Advance a sealed case"},
		},
	}
}

// List returns a paginated list of cases with optional query parameter filters.
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

// Search accepts a JSON body with pagination and filter criteria and returns matching cases.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := handlers.DecodeJSON(w, r, h.maxBodySize, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single case by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Create opens a new case. The authenticated subject, if any, is recorded as its creator.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := handlers.DecodeJSON(w, r, h.maxBodySize, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	cmd.CreatedBy = middleware.Subject(r.Context())

	c, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// Transition moves a sealed case to a later status.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	var cmd TransitionCommand
	if err := handlers.DecodeJSON(w, r, h.maxBodySize, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.sys.Transition(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}
