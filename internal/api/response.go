package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/uiforge/uiforge/internal/log"
)

// errorResponse is the JSON error payload. Step and Details are only set
// for pipeline stage failures, so clients can tell which agent produced
// nothing.
type errorResponse struct {
	Error   string `json:"error"`
	Step    string `json:"step,omitempty"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
// Encoding happens into a buffer first, so headers are only sent after a
// successful encode and a failure can still become a proper 500.
func writeJSON(w http.ResponseWriter, logger log.Logger, status int, data any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Client disconnects are common and expected.
		logger.Debug("failed to write response body", "error", err)
	}
}

// writeError writes a plain JSON error response.
func writeError(w http.ResponseWriter, logger log.Logger, status int, msg string) {
	writeJSON(w, logger, status, errorResponse{Error: msg})
}
