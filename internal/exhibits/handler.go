package exhibits

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/pkg/handlers"
	"github.com/JaimeStill/verum/pkg/middleware"
	"github.com/JaimeStill/verum/pkg/pagination"
	"github.com/JaimeStill/verum/pkg/routes"
)

// Handler provides HTTP endpoints for evidence operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
	maxBodySize   int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination config, and size limits.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
	maxBodySize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "exhibits"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
		maxBodySize:   maxBodySize,
	}
}

// Routes returns the route groups for evidence endpoints: case-scoped intake,
// sealing, and verification, plus direct evidence access.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags: []string{"Evidence"},
		Children: []routes.Group{
			{
				Prefix: "/cases/{id}",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/evidence", Handler: h.ListByCase, Summary: "List a case's evidence"},
					{Method: "POST", Pattern: "/evidence", Handler: h.Upload, Summary: "Add and seal one evidence file"},
					{Method: "POST", Pattern: "/evidence/batch", Handler: h.UploadBatch, Summary: "Add and seal several evidence files"},
					{Method: "POST", Pattern: "/seal", Handler: h.SealCase, Summary: "Seal a case"},
					{Method: "GET", Pattern: "/verify", Handler: h.VerifyCase, Summary: "Verify every item and the case integrity hash"},
					{Method: "GET", Pattern: "/snapshot", Handler: h.Snapshot, Summary: "Export the case as an analysis snapshot"},
				},
			},
			{
				Prefix: "/evidence",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List, Summary: "List evidence"},
					{Method: "POST", Pattern: "/search", Handler: h.Search, Summary: "Search evidence"},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find, Summary: "Find an evidence record"},
					{Method: "GET", Pattern: "/{id}/content", Handler: h.Content, Summary: "Download evidence content"},
					{Method: "GET", Pattern: "/{id}/verify", Handler: h.Verify, Summary: "Verify content and seal"},
				},
			},
		},
	}
}

// List returns a paginated list of evidence with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())
	h.list(w, r, page, filters)
}

// ListByCase returns the evidence of one case, chronological unless sorted otherwise.
func (h *Handler) ListByCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())
	filters.CaseID = &caseID
	h.list(w, r, page, filters)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching evidence.
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

// Find returns a single evidence item by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	x, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, x)
}

// Upload adds a single file to an open case. The multipart form carries the
// file under "file" plus optional capture metadata. The item is sealed on intake.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmds, err := h.parseUpload(w, r, caseID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if len(cmds) != 1 {
		err := fmt.Errorf("%w: expected one file, got %d", ErrInvalidFile, len(cmds))
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	x, err := h.sys.Add(r.Context(), cmds[0])
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, x)
}

// UploadBatch adds every "file" part of the form to an open case.
// Each file reports its own outcome; the capture metadata applies to all of them.
func (h *Handler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmds, err := h.parseUpload(w, r, caseID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	results := h.sys.AddBatch(r.Context(), cmds)
	handlers.RespondJSON(w, http.StatusOK, results)
}

// Content streams the stored blob of an evidence item.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	rc, x, err := h.sys.Content(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", x.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(x.FileSize, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": x.Filename}))
	w.Header().Set("X-Content-Hash", x.ContentHash)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("content stream interrupted", "id", id, "error", err)
	}
}

// Verify checks an item's stored content and seal.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	v, err := h.sys.Verify(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// SealCase seals an open case and returns it with its integrity hash.
func (h *Handler) SealCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	c, err := h.sys.SealCase(r.Context(), caseID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// VerifyCase checks every item of a case and its integrity hash.
func (h *Handler) VerifyCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	v, err := h.sys.VerifyCase(r.Context(), caseID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// Snapshot returns the case and its evidence as an analysis input document.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	c, err := h.sys.Snapshot(r.Context(), caseID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, SnapshotInput(c))
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request, caseID uuid.UUID) ([]CreateCommand, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, uploadError(err)
	}

	meta, err := parseFormMeta(r.MultipartForm)
	if err != nil {
		return nil, err
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no file part", ErrInvalidFile)
	}

	subject := middleware.Subject(r.Context())
	cmds := make([]CreateCommand, 0, len(files))
	for _, fh := range files {
		cmd, err := commandFromFile(h.logger, fh, meta)
		if err != nil {
			return nil, err
		}
		cmd.CaseID = caseID
		cmd.CreatedBy = subject
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
