package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-capture/internal/database"
)

// HistoryHandler serves capture history from the database.
type HistoryHandler struct {
	history database.HistoryReader
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history database.HistoryReader) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// limitParam parses the limit query parameter with a default.
func limitParam(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}

// Stats returns per-person capture aggregates.
func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.history.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats == nil {
		stats = []database.PersonStats{}
	}
	respondJSON(w, http.StatusOK, stats)
}

// RecentSessions returns the most recently started sessions.
func (h *HistoryHandler) RecentSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.history.RecentSessions(r.Context(), limitParam(r, 50))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sessions == nil {
		sessions = []database.SessionRecord{}
	}
	respondJSON(w, http.StatusOK, sessions)
}

// ListPerson returns the most recent captures for one person.
func (h *HistoryHandler) ListPerson(w http.ResponseWriter, r *http.Request) {
	personKey := chi.URLParam(r, "personKey")
	if personKey == "" {
		respondError(w, http.StatusBadRequest, "person key is required")
		return
	}

	records, err := h.history.ListByPerson(r.Context(), personKey, limitParam(r, 50))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []database.CaptureRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}
