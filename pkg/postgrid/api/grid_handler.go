// Package api exposes the post-grid service over HTTP.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/arteluz/post-grid/pkg/postgrid"
)

// GridHandler handles grid query API endpoints.
type GridHandler struct {
	service postgrid.Service
}

// NewGridHandler creates a handler over the given service.
func NewGridHandler(service postgrid.Service) *GridHandler {
	return &GridHandler{service: service}
}

// Routes returns the router for grid endpoints.
func (h *GridHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Grid)
	return r
}

// GridResponse is the JSON envelope for grid queries. On failure OK is false
// and Error carries a human-readable message; Posts is never null.
type GridResponse struct {
	OK      bool             `json:"ok"`
	Posts   []postgrid.Post  `json:"posts"`
	HasMore bool             `json:"hasMore"`
	Total   int              `json:"total,omitempty"`
	Facets  *postgrid.Facets `json:"facets,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Grid serves one grid query.
//
// Query parameters: q (free text), project, client, brand (matched as
// id-or-name), draft (flag), page (>=1), pageSize (1-100), meta (flag to
// request facets). Unparseable numbers fall back to defaults.
func (h *GridHandler) Grid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := postgrid.GridRequest{
		Query:         strings.TrimSpace(q.Get("q")),
		Project:       q.Get("project"),
		Client:        q.Get("client"),
		Brand:         q.Get("brand"),
		DraftOnly:     parseFlag(q.Get("draft")),
		Page:          parseInt(q.Get("page")),
		PageSize:      parseInt(q.Get("pageSize")),
		IncludeFacets: parseFlag(q.Get("meta")),
	}

	res, err := h.service.Grid(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		message := "failed to load grid"
		switch {
		case errors.Is(err, postgrid.ErrNotConfigured):
			status = http.StatusServiceUnavailable
			message = "content source is not configured"
		case errors.Is(err, postgrid.ErrSourceFailure):
			status = http.StatusBadGateway
			message = "content source request failed"
		}
		slog.Error("grid query failed", "error", err, "status", status)
		render.Status(r, status)
		render.JSON(w, r, GridResponse{OK: false, Posts: []postgrid.Post{}, Error: message})
		return
	}

	render.JSON(w, r, GridResponse{
		OK:      true,
		Posts:   res.Posts,
		HasMore: res.HasMore,
		Total:   res.Total,
		Facets:  res.Facets,
	})
}

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health serves the liveness endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{Status: "ok"})
}

// parseFlag accepts 1/true/yes (case-insensitive) as set.
func parseFlag(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// parseInt returns 0 for absent or malformed values; the service applies its
// own defaults and clamps.
func parseInt(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
