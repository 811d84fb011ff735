package analyses

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/pkg/handlers"
	"github.com/JaimeStill/verum/pkg/middleware"
	"github.com/JaimeStill/verum/pkg/pagination"
	"github.com/JaimeStill/verum/pkg/routes"
)

// Handler provides HTTP endpoints for analysis operations.
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
		logger:      logger.With("handler", "analyses"),
		pagination:  pagination,
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags: []string{"Analyses"},
		Children: []routes.Group{
			{
				Prefix: "/cases/{id}/analyses",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListByCase, Summary: "List a case's analyses"},
					{Method: "POST", Pattern: "", Handler: h.Run, Summary: "Run the leveler over a case"},
				},
			},
			{
				Prefix: "/analyses",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List, Summary: "List analyses"},
					{Method: "POST", Pattern: "/search", Handler: h.Search, Summary: "Search analyses"},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find, Summary: "Find an analysis"},
				},
			},
		},
	}
}

// List returns a paginated list of analyses with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	h.list(w, r, page, FiltersFromQuery(r.URL.Query()))
}

// ListByCase returns the analyses recorded for one case, newest first.
func (h *Handler) ListByCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())
	filters.CaseID = &caseID
	h.list(w, r, page, filters)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching analyses.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := handlers.DecodeJSON(w, r, h.maxBodySize, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)
	h.list(w, r, req.PageRequest, req.Filters)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, page pagination.PageRequest, filters Filters) {
	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single analysis with its full result.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	a, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

// Run analyzes a case against the statements and expected evidence in the body.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	var cmd RunCommand
	if err := handlers.DecodeJSON(w, r, h.maxBodySize, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	cmd.CreatedBy = middleware.Subject(r.Context())

	a, err := h.sys.Run(r.Context(), caseID, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, a)
}
