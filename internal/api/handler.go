// Package api exposes the pipeline's outputs over a read-only HTTP surface:
// cleaned tables as JSON and rendered charts as PNG files.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github-trends/internal/model"
	"github-trends/internal/table"
)

// Handler is the container for API dependencies.
type Handler struct {
	tablesDir string
	chartsDir string
	logger    *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(tablesDir, chartsDir string, logger *slog.Logger) http.Handler {
	h := &Handler{
		tablesDir: tablesDir,
		chartsDir: chartsDir,
		logger:    logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tables/{name}", h.getTable)
		r.Get("/charts/{file}", h.getChart)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getTable serves a cleaned table as JSON rows.
// GET /v1/tables/{name}
func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path := filepath.Join(h.tablesDir, name+".csv")

	var (
		rows any
		err  error
	)
	switch name {
	case "top-repos", "top-user-repos", "top-org-repos":
		rows, err = table.Read[model.Repository](path)
	case "user-data":
		rows, err = table.Read[model.User](path)
	case "user-location-data":
		rows, err = table.Read[model.UserLocation](path)
	default:
		respondWithError(w, http.StatusNotFound, "Unknown table")
		return
	}

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			respondWithError(w, http.StatusNotFound, "Table not yet produced")
			return
		}
		h.logger.Error("Failed to load table", "table", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, rows)
}

// getChart serves a rendered chart image.
// GET /v1/charts/{file}
func (h *Handler) getChart(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if strings.Contains(file, "..") || strings.ContainsAny(file, `/\`) || !strings.HasSuffix(file, ".png") {
		respondWithError(w, http.StatusNotFound, "Unknown chart")
		return
	}

	path := filepath.Join(h.chartsDir, file)
	if _, err := os.Stat(path); err != nil {
		respondWithError(w, http.StatusNotFound, "Chart not yet rendered")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
