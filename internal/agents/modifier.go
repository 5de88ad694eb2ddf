package agents

import (
	"context"
	"strings"
)

// Modify incrementally edits existing code per a free-text request.
//
// The incremental, non-destructive contract is enforced by instruction in
// the prompt only; nothing here mechanically verifies that unrelated code
// was preserved. See DESIGN.md for this known limitation.
func (a *Agents) Modify(ctx context.Context, currentCode, request string) (string, error) {
	prompt := strings.ReplaceAll(modifierPrompt, "{{CURRENT_CODE}}", currentCode) + request

	raw, err := a.client.Complete(ctx, prompt)
	if err != nil {
		return "", &StageError{Step: StepModifier, Err: err}
	}

	return stripCodeFence(strings.TrimSpace(raw)), nil
}
