// Package agents implements the four pipeline stage agents: Planner,
// Generator, Modifier, and Explainer. Each builds a stage prompt from a
// static template, invokes the model gateway, and normalizes the raw
// response into a typed result.
package agents

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/uiforge/uiforge/internal/gateway"
	"github.com/uiforge/uiforge/internal/log"
)

// Step identifies the pipeline stage an error originated from.
type Step string

const (
	StepPlanner   Step = "planner"
	StepGenerator Step = "generator"
	StepModifier  Step = "modifier"
	StepExplainer Step = "explainer"
)

// StageError is a model or infrastructure failure in one pipeline stage.
// The step tag lets callers report which stage produced nothing.
type StageError struct {
	Step Step
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Step, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Agents runs the pipeline stages against a shared completion capability.
type Agents struct {
	client gateway.Completer
	logger log.Logger
}

// New creates the stage agents around the given completer.
func New(client gateway.Completer, logger log.Logger) *Agents {
	return &Agents{client: client, logger: logger}
}

var (
	jsonFenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	codeFenceRe = regexp.MustCompile("```(?:jsx|javascript|js|react)?\\s*([\\s\\S]*?)```")
)

// stripJSONFence unwraps a fenced JSON block if the model added one.
func stripJSONFence(text string) string {
	if m := jsonFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// stripCodeFence unwraps a fenced code block if the model added one.
func stripCodeFence(text string) string {
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}
