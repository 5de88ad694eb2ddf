package agents

import "encoding/json"

// Plan is the structured intent record the Planner produces from a user
// request. It is consumed verbatim by the Generator; the only schema check
// is JSON-parseability.
type Plan struct {
	Layout      string          `json:"layout"`
	Components  []ComponentSpec `json:"components"`
	Reasoning   string          `json:"reasoning"`
	StateNeeded []string        `json:"stateNeeded"`
}

// ComponentSpec describes one component placement within a Plan.
type ComponentSpec struct {
	Type      string          `json:"type"`
	Props     json.RawMessage `json:"props,omitempty"`
	Children  json.RawMessage `json:"children,omitempty"`
	Placement string          `json:"placement,omitempty"`
}

// IntentKind discriminates the two Intent variants.
type IntentKind string

const (
	// IntentPlan marks a version produced by the create flow.
	IntentPlan IntentKind = "plan"

	// IntentModification marks a version produced by the modify flow.
	IntentModification IntentKind = "modification"
)

// Intent is the tagged union stored with every version: a structured Plan
// for create requests, or a modification-request marker for modify requests.
// Exactly one variant is populated; consumers switch on Kind.
type Intent struct {
	Kind IntentKind `json:"kind"`

	// Plan is set when Kind is IntentPlan.
	Plan *Plan `json:"plan,omitempty"`

	// Request is the modification request text when Kind is IntentModification.
	Request string `json:"request,omitempty"`
}

// PlanIntent wraps a Plan as an Intent.
func PlanIntent(p *Plan) Intent {
	return Intent{Kind: IntentPlan, Plan: p}
}

// ModificationIntent wraps a modification request as an Intent.
func ModificationIntent(request string) Intent {
	return Intent{Kind: IntentModification, Request: request}
}

// promptText renders the intent the way stage prompts expect it: the plan
// as indented JSON, or the modification marker object.
func (in Intent) promptText() string {
	switch in.Kind {
	case IntentModification:
		b, _ := json.MarshalIndent(map[string]any{
			"modification": true,
			"request":      in.Request,
		}, "", "  ")
		return string(b)
	default:
		b, _ := json.MarshalIndent(in.Plan, "", "  ")
		return string(b)
	}
}
