package registers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/auth"
	"github.com/JaimeStill/docket/pkg/handlers"
	"github.com/JaimeStill/docket/pkg/routes"
)

// Handler provides HTTP endpoints for numbering register archives.
type Handler struct {
	sys    System
	logger *slog.Logger
	roles  []string
}

// NewHandler creates a Handler. Export and Delete require one of roles.
func NewHandler(sys System, logger *slog.Logger, roles []string) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "registers"),
		roles:  roles,
	}
}

// Routes returns the route group definition for register endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/registers",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{type}/{year}", Handler: h.Find},
			{Method: "POST", Pattern: "/{type}/{year}", Handler: auth.RequireRole(h.roles, h.logger, h.Export)},
			{Method: "DELETE", Pattern: "/{type}/{year}", Handler: auth.RequireRole(h.roles, h.logger, h.Delete)},
		},
	}
}

// Export builds and archives the register, returning it.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	t, year, err := parsePath(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())

	reg, err := h.sys.Export(r.Context(), actor, t, year)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, reg)
}

// Find returns the archived register.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	t, year, err := parsePath(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	reg, err := h.sys.Find(r.Context(), t, year)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reg)
}

// Delete removes the archived register.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	t, year, err := parsePath(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())

	if err := h.sys.Delete(r.Context(), actor, t, year); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parsePath(r *http.Request) (documents.Type, int, error) {
	t, err := documents.ParseType(r.PathValue("type"))
	if err != nil {
		return "", 0, err
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return "", 0, err
	}

	return t, year, nil
}
