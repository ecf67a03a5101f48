package numbering

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/auth"
	"github.com/JaimeStill/docket/pkg/handlers"
	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/routes"
)

// Handler provides HTTP endpoints for the numbering registry, assignment, and audit log.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	roles      []string
}

// NewHandler creates a Handler. Mutating endpoints require an actor holding one of roles.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	roles []string,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "numbering"),
		pagination: pagination,
		roles:      roles,
	}
}

// Routes returns the route group definition for numbering endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/numbering",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/configs", Handler: h.ListConfigs},
			{Method: "PUT", Pattern: "/configs", Handler: h.restricted(h.UpsertConfig)},
			{Method: "GET", Pattern: "/configs/{prefix}/{type}/{year}", Handler: h.FindConfig},
			{Method: "GET", Pattern: "/preview/{type}", Handler: h.Preview},
			{Method: "POST", Pattern: "/assign", Handler: h.restricted(h.Assign)},
			{Method: "POST", Pattern: "/bulk", Handler: h.restricted(h.BulkAssign)},
			{Method: "GET", Pattern: "/history/{type}/{id}", Handler: h.History},
			{Method: "GET", Pattern: "/logs", Handler: h.Logs},
		},
	}
}

func (h *Handler) restricted(next http.HandlerFunc) http.HandlerFunc {
	return auth.RequireRole(h.roles, h.logger, next)
}

// ListConfigs returns a paginated list of registered sequences.
func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := ConfigFiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListConfigs(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// FindConfig returns the sequence registered for the prefix, type, and year path parameters.
func (h *Handler) FindConfig(w http.ResponseWriter, r *http.Request) {
	t, err := documents.ParseType(r.PathValue("type"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	key := ConfigKey{Prefix: r.PathValue("prefix"), DocumentType: t, Year: year}

	c, err := h.sys.FindConfig(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// UpsertConfig registers or updates a sequence from an UpsertCommand JSON body.
func (h *Handler) UpsertConfig(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	var cmd UpsertCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.sys.UpsertConfig(r.Context(), actor, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Preview returns the next auto number for the type path parameter without consuming it.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	t, err := documents.ParseType(r.PathValue("type"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	p, err := h.sys.Preview(r.Context(), t)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Assign assigns a reference number from an AssignCommand JSON body.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	var cmd AssignCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	a, err := h.sys.Assign(r.Context(), actor, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

// BulkAssign assigns numbers for every item of a BulkAssignCommand JSON body.
// Per-item failures are reported in the body; the response status is 200
// whenever the command itself was valid.
func (h *Handler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	var cmd BulkAssignCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.BulkAssign(r.Context(), actor, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// History returns the audit entries of a document, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	ref, err := documents.RefFromPath(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.History(r.Context(), ref, page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Logs returns a paginated, filterable view of the whole audit log.
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := LogFiltersFromQuery(r.URL.Query())

	result, err := h.sys.Logs(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
