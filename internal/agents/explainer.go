package agents

import (
	"context"
	"strings"

	"github.com/uiforge/uiforge/internal/contract"
)

// Explanation is the Explainer's result: prose plus the component kinds
// actually present in the final code.
type Explanation struct {
	Text           string
	ComponentsUsed []string
}

// Explain produces a plain-English explanation of what was built and why.
//
// The component list is derived from the final code, not from the plan, so
// the explanation stays accurate even when the Generator silently dropped
// or added components.
func (a *Agents) Explain(ctx context.Context, userRequest string, intent Intent, code string) (Explanation, error) {
	used := contract.DetectComponents(code)

	prompt := explainerPrompt
	prompt = strings.ReplaceAll(prompt, "{{USER_REQUEST}}", userRequest)
	prompt = strings.ReplaceAll(prompt, "{{PLAN}}", intent.promptText())
	prompt = strings.ReplaceAll(prompt, "{{COMPONENTS_USED}}", strings.Join(used, ", "))

	raw, err := a.client.Complete(ctx, prompt)
	if err != nil {
		return Explanation{}, &StageError{Step: StepExplainer, Err: err}
	}

	return Explanation{Text: strings.TrimSpace(raw), ComponentsUsed: used}, nil
}
