// Package pipeline orchestrates the full request flow: safety screening,
// the stage agents, contract auto-fix and validation, and version
// persistence. Handlers call into this package and translate its typed
// errors into HTTP responses.
package pipeline

import (
	"errors"

	"github.com/uiforge/uiforge/internal/agents"
	"github.com/uiforge/uiforge/internal/history"
	"github.com/uiforge/uiforge/internal/log"
	"github.com/uiforge/uiforge/internal/safety"
)

// ErrNoPriorCode is returned by Modify when the session has no version to
// edit and the caller supplied no code of its own.
var ErrNoPriorCode = errors.New("no existing code found")

// RejectedError reports a prompt blocked by the safety filter before any
// model call was made.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "prompt rejected: " + e.Reason
}

// StepTrace records one pipeline stage outcome for the response payload.
// Output is either a string or, for validator warnings, a list of issues.
type StepTrace struct {
	Step   string `json:"step"`
	Status string `json:"status"`
	Output any    `json:"output"`
}

const (
	statusCompleted = "completed"
	statusPassed    = "passed"
	statusWarnings  = "warnings"
)

// GenerateResult is the create-flow outcome returned to the client.
type GenerateResult struct {
	SessionID        string       `json:"sessionId"`
	Version          int          `json:"version"`
	Code             string       `json:"code"`
	Plan             *agents.Plan `json:"plan"`
	Explanation      string       `json:"explanation"`
	ComponentsUsed   []string     `json:"componentsUsed"`
	ValidationIssues []string     `json:"validationIssues"`
	AgentSteps       []StepTrace  `json:"agentSteps"`
}

// ModifyResult is the modify-flow outcome returned to the client.
type ModifyResult struct {
	SessionID        string      `json:"sessionId"`
	Version          int         `json:"version"`
	Code             string      `json:"code"`
	Explanation      string      `json:"explanation"`
	ComponentsUsed   []string    `json:"componentsUsed"`
	ValidationIssues []string    `json:"validationIssues"`
	AgentSteps       []StepTrace `json:"agentSteps"`
}

// Orchestrator wires the safety filter, stage agents, and version store
// into the two end-to-end flows.
type Orchestrator struct {
	filter *safety.Filter
	agents *agents.Agents
	store  *history.Store
	logger log.Logger
}

// New creates an Orchestrator over the given collaborators.
func New(filter *safety.Filter, ag *agents.Agents, store *history.Store, logger log.Logger) *Orchestrator {
	return &Orchestrator{filter: filter, agents: ag, store: store, logger: logger}
}

// validatorTrace shapes the validation outcome the way clients display it:
// the issue list when there are warnings, a fixed pass message otherwise.
func validatorTrace(valid bool, issues []string) StepTrace {
	trace := StepTrace{Step: "Validator", Status: statusPassed, Output: "All checks passed"}
	if !valid {
		trace.Status = statusWarnings
		trace.Output = issues
	}
	return trace
}
