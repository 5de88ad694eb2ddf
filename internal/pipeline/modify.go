package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/uiforge/uiforge/internal/agents"
	"github.com/uiforge/uiforge/internal/contract"
	"github.com/uiforge/uiforge/internal/history"
)

// Modify runs the edit flow: safety screen, modifier, auto-fix, validate,
// explain, persist. When currentCode is empty the session's latest stored
// version is edited; a session with no history returns ErrNoPriorCode.
func (o *Orchestrator) Modify(ctx context.Context, sessionID, prompt, currentCode string) (ModifyResult, error) {
	if res := o.filter.Check(prompt); !res.Safe {
		o.logger.Warn("prompt rejected", "session_id", sessionID, "reason", res.Reason)
		return ModifyResult{}, &RejectedError{Reason: res.Reason}
	}

	if currentCode == "" {
		latest, err := o.store.Latest(sessionID)
		if errors.Is(err, history.ErrVersionNotFound) {
			return ModifyResult{}, ErrNoPriorCode
		}
		if err != nil {
			return ModifyResult{}, fmt.Errorf("loading latest version: %w", err)
		}
		currentCode = latest.Code
	}

	o.logger.Info("modify started", "session_id", sessionID)

	code, err := o.agents.Modify(ctx, currentCode, prompt)
	if err != nil {
		return ModifyResult{}, err
	}

	code = contract.AutoFix(code)
	report := contract.Validate(code)
	if !report.Valid {
		o.logger.Warn("validation issues", "session_id", sessionID, "issues", report.Issues)
	}

	intent := agents.ModificationIntent(prompt)
	explanation, err := o.agents.Explain(ctx, prompt, intent, code)
	if err != nil {
		return ModifyResult{}, err
	}

	version, err := o.store.AddVersion(sessionID, history.Artifact{
		Code:           code,
		Intent:         intent,
		Explanation:    explanation.Text,
		UserPrompt:     prompt,
		ComponentsUsed: explanation.ComponentsUsed,
	})
	if err != nil {
		return ModifyResult{}, err
	}

	o.logger.Info("modify completed", "session_id", sessionID, "version", version.ID)

	return ModifyResult{
		SessionID:        sessionID,
		Version:          version.ID,
		Code:             code,
		Explanation:      explanation.Text,
		ComponentsUsed:   explanation.ComponentsUsed,
		ValidationIssues: report.Issues,
		AgentSteps: []StepTrace{
			{Step: "Modifier", Status: statusCompleted, Output: "Code modified incrementally"},
			validatorTrace(report.Valid, report.Issues),
			{Step: "Explainer", Status: statusCompleted, Output: "Changes explained"},
		},
	}, nil
}
