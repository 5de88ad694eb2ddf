package agents

import (
	"context"
	"encoding/json"
	"strings"
)

// Generate converts a structured Plan into a full code artifact. The output
// is unvalidated text: contract checking is a separate stage.
func (a *Agents) Generate(ctx context.Context, plan *Plan) (string, error) {
	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", &StageError{Step: StepGenerator, Err: err}
	}

	raw, err := a.client.Complete(ctx, generatorPrompt+string(planJSON))
	if err != nil {
		return "", &StageError{Step: StepGenerator, Err: err}
	}

	return stripCodeFence(strings.TrimSpace(raw)), nil
}
