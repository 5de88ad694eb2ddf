package agents

import (
	"context"
	"encoding/json"
	"strings"
)

// PlanResult is the Planner's outcome. A model that answers but fails to
// produce parseable JSON is an expected, recoverable outcome: Success is
// false, RawResponse keeps the text for diagnostics, and no error is
// raised. Callers must check Success, never assume Plan is set.
type PlanResult struct {
	Success     bool
	Plan        *Plan
	RawResponse string
	ParseError  string
}

// Plan interprets a free-text user request into a structured Plan.
// Infrastructure failures return a StageError tagged with StepPlanner.
func (a *Agents) Plan(ctx context.Context, userPrompt string) (PlanResult, error) {
	raw, err := a.client.Complete(ctx, plannerPrompt+userPrompt)
	if err != nil {
		return PlanResult{}, &StageError{Step: StepPlanner, Err: err}
	}

	raw = strings.TrimSpace(raw)
	jsonStr := stripJSONFence(raw)

	var plan Plan
	if err := json.Unmarshal([]byte(jsonStr), &plan); err != nil {
		a.logger.Warn("planner returned unparseable plan", "error", err)
		return PlanResult{
			Success:     false,
			RawResponse: raw,
			ParseError:  "failed to parse plan from model response",
		}, nil
	}

	return PlanResult{Success: true, Plan: &plan, RawResponse: raw}, nil
}
