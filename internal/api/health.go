package api

import (
	"net/http"

	"github.com/uiforge/uiforge/internal/log"
)

type healthResponse struct {
	Status    string `json:"status"`
	HasAPIKey bool   `json:"hasApiKey"`
}

// healthHandler reports liveness and whether a model API key is configured,
// so a frontend can surface a setup hint before the first generation fails.
func healthHandler(hasAPIKey bool, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, http.StatusOK, healthResponse{Status: "ok", HasAPIKey: hasAPIKey})
	}
}
