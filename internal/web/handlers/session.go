package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// SessionHandler handles session lifecycle endpoints.
type SessionHandler struct {
	workflow Workflow
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(workflow Workflow) *SessionHandler {
	return &SessionHandler{workflow: workflow}
}

// Identify switches the session to the person named in the request body.
// An empty name clears the session.
func (h *SessionHandler) Identify(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	status, err := h.workflow.Identify(r.Context(), input.Name)
	if err != nil {
		log.Printf("identify failed for %q: %v", sanitizeForLog(input.Name), err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// Status returns the current session snapshot.
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.workflow.Status())
}
