package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/uiforge/uiforge/internal/agents"
	"github.com/uiforge/uiforge/internal/log"
	"github.com/uiforge/uiforge/internal/pipeline"
)

// maxBodyBytes caps request bodies at 1 MiB. Prompts and code artifacts are
// small; anything larger is a client bug or abuse.
const maxBodyBytes = 1 << 20

const missingKeyMsg = "GEMINI_API_KEY is not configured. Set it in the environment."

// pipelineHandler serves the generate and modify endpoints.
// orch is nil when no API key is configured; the handlers then fail with a
// configuration error while the rest of the API stays available.
type pipelineHandler struct {
	orch   *pipeline.Orchestrator
	logger log.Logger
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// stageLabel renders a pipeline step for user-facing error messages.
func stageLabel(step agents.Step) string {
	switch step {
	case agents.StepPlanner:
		return "Planner"
	case agents.StepGenerator:
		return "Generator"
	case agents.StepModifier:
		return "Modifier"
	case agents.StepExplainer:
		return "Explainer"
	default:
		return "Pipeline"
	}
}

// writePipelineError maps orchestrator errors onto HTTP responses: safety
// rejections are client errors, stage failures are server errors tagged
// with the failing step.
func (h *pipelineHandler) writePipelineError(w http.ResponseWriter, err error) {
	var rejected *pipeline.RejectedError
	if errors.As(err, &rejected) {
		writeError(w, h.logger, http.StatusBadRequest, "Prompt rejected: "+rejected.Reason)
		return
	}

	var stage *agents.StageError
	if errors.As(err, &stage) {
		h.logger.Error("pipeline stage failed", "step", stage.Step, "error", stage.Err)
		writeJSON(w, h.logger, http.StatusInternalServerError, errorResponse{
			Error:   stageLabel(stage.Step) + " failed",
			Step:    string(stage.Step),
			Details: stage.Err.Error(),
		})
		return
	}

	h.logger.Error("pipeline failed", "error", err)
	writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
}

type generateRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"sessionId"`
}

// generate runs the full create pipeline for one prompt. A missing
// sessionId starts a fresh session under a generated UUID.
func (h *pipelineHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Prompt is required")
		return
	}

	if h.orch == nil {
		writeError(w, h.logger, http.StatusInternalServerError, missingKeyMsg)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	result, err := h.orch.Generate(r.Context(), sessionID, req.Prompt)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

type modifyRequest struct {
	Prompt      string `json:"prompt"`
	SessionID   string `json:"sessionId"`
	CurrentCode string `json:"currentCode"`
}

// modify runs the edit pipeline against client-supplied code or the
// session's latest stored version.
func (h *pipelineHandler) modify(w http.ResponseWriter, r *http.Request) {
	var req modifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Prompt) == "" || req.SessionID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Prompt and sessionId are required")
		return
	}

	if h.orch == nil {
		writeError(w, h.logger, http.StatusInternalServerError, missingKeyMsg)
		return
	}

	result, err := h.orch.Modify(r.Context(), req.SessionID, req.Prompt, req.CurrentCode)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoPriorCode) {
			writeError(w, h.logger, http.StatusBadRequest, "No existing code found. Use /api/generate first.")
			return
		}
		h.writePipelineError(w, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}
