package pipeline

import (
	"context"
	"errors"

	"github.com/uiforge/uiforge/internal/agents"
	"github.com/uiforge/uiforge/internal/contract"
	"github.com/uiforge/uiforge/internal/history"
)

// Generate runs the full create flow for one prompt: safety screen, plan,
// generate, auto-fix, validate, explain, persist. Validation issues are
// reported, not fatal; the artifact is stored and returned either way.
func (o *Orchestrator) Generate(ctx context.Context, sessionID, prompt string) (GenerateResult, error) {
	if res := o.filter.Check(prompt); !res.Safe {
		o.logger.Warn("prompt rejected", "session_id", sessionID, "reason", res.Reason)
		return GenerateResult{}, &RejectedError{Reason: res.Reason}
	}

	o.logger.Info("generate started", "session_id", sessionID)

	planResult, err := o.agents.Plan(ctx, prompt)
	if err != nil {
		return GenerateResult{}, err
	}
	if !planResult.Success {
		return GenerateResult{}, &agents.StageError{
			Step: agents.StepPlanner,
			Err:  errors.New(planResult.ParseError),
		}
	}
	o.logger.Debug("plan created", "session_id", sessionID, "layout", planResult.Plan.Layout)

	code, err := o.agents.Generate(ctx, planResult.Plan)
	if err != nil {
		return GenerateResult{}, err
	}

	code = contract.AutoFix(code)
	report := contract.Validate(code)
	if !report.Valid {
		o.logger.Warn("validation issues", "session_id", sessionID, "issues", report.Issues)
	}

	intent := agents.PlanIntent(planResult.Plan)
	explanation, err := o.agents.Explain(ctx, prompt, intent, code)
	if err != nil {
		return GenerateResult{}, err
	}

	version, err := o.store.AddVersion(sessionID, history.Artifact{
		Code:           code,
		Intent:         intent,
		Explanation:    explanation.Text,
		UserPrompt:     prompt,
		ComponentsUsed: explanation.ComponentsUsed,
	})
	if err != nil {
		return GenerateResult{}, err
	}

	o.logger.Info("generate completed", "session_id", sessionID, "version", version.ID)

	return GenerateResult{
		SessionID:        sessionID,
		Version:          version.ID,
		Code:             code,
		Plan:             planResult.Plan,
		Explanation:      explanation.Text,
		ComponentsUsed:   explanation.ComponentsUsed,
		ValidationIssues: report.Issues,
		AgentSteps: []StepTrace{
			{Step: "Planner", Status: statusCompleted, Output: "Structured plan created"},
			{Step: "Generator", Status: statusCompleted, Output: "React code generated"},
			validatorTrace(report.Valid, report.Issues),
			{Step: "Explainer", Status: statusCompleted, Output: "Decision explanation ready"},
		},
	}, nil
}
