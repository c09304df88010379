// Package handler provides HTTP handlers for the report history API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sevigo/reviewgate/internal/storage"
)

// ReportsHandler serves stored review reports.
type ReportsHandler struct {
	store  storage.Store
	logger *slog.Logger
}

// NewReportsHandler creates a new reports handler backed by the given store.
func NewReportsHandler(store storage.Store, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{store: store, logger: logger}
}

// Latest returns the most recent report for ?repo=...&target=... (target optional).
func (h *ReportsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	repo := r.URL.Query().Get("repo")
	if repo == "" {
		http.Error(w, "missing repo parameter", http.StatusBadRequest)
		return
	}
	target := r.URL.Query().Get("target")

	rec, err := h.store.LatestReport(r.Context(), repo, target)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "no report found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load latest report", "repo", repo, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	report, err := rec.Decode()
	if err != nil {
		h.logger.Error("stored report is unreadable", "id", rec.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, report)
}

// List returns recent report records for ?repo=...&limit=N, newest first.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	repo := r.URL.Query().Get("repo")
	if repo == "" {
		http.Error(w, "missing repo parameter", http.StatusBadRequest)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	recs, err := h.store.ListReports(r.Context(), repo, limit)
	if err != nil {
		h.logger.Error("failed to list reports", "repo", repo, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []storage.ReportRecord{}
	}

	writeJSON(w, h.logger, recs)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
