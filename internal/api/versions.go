package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/uiforge/uiforge/internal/history"
	"github.com/uiforge/uiforge/internal/log"
)

// versionsHandler serves version history reads and rollback.
type versionsHandler struct {
	store  *history.Store
	logger log.Logger
}

// list returns all version summaries for a session, oldest first. Unknown
// sessions yield an empty list, not an error.
func (h *versionsHandler) list(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")
	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"versions": h.store.Versions(sessionID),
	})
}

// get returns one full version, code included.
func (h *versionsHandler) get(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")
	versionID, err := strconv.Atoi(r.PathValue("versionId"))
	if err != nil {
		writeError(w, h.logger, http.StatusNotFound, "Version not found")
		return
	}

	version, err := h.store.Version(sessionID, versionID)
	if err != nil {
		writeError(w, h.logger, http.StatusNotFound, "Version not found")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, version)
}

type rollbackRequest struct {
	SessionID string `json:"sessionId"`
	VersionID int    `json:"versionId"`
}

type rollbackResponse struct {
	SessionID    string `json:"sessionId"`
	Version      int    `json:"version"`
	Code         string `json:"code"`
	Explanation  string `json:"explanation"`
	RolledBackTo int    `json:"rolledBackTo"`
}

// rollback restores a prior version by appending a copy of it as a new
// version. History is never rewritten.
func (h *versionsHandler) rollback(w http.ResponseWriter, r *http.Request) {
	var req rollbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SessionID == "" || req.VersionID == 0 {
		writeError(w, h.logger, http.StatusBadRequest, "sessionId and versionId are required")
		return
	}

	version, err := h.store.Rollback(req.SessionID, req.VersionID)
	if err != nil {
		if errors.Is(err, history.ErrVersionNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Version not found")
			return
		}
		h.logger.Error("rollback failed", "session_id", req.SessionID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, rollbackResponse{
		SessionID:    req.SessionID,
		Version:      version.ID,
		Code:         version.Code,
		Explanation:  version.Explanation,
		RolledBackTo: req.VersionID,
	})
}
