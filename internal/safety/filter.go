// Package safety screens user prompts before any model call.
//
// The filter is a first line of defense against prompt injection and
// code-injection idioms. No filter is perfect: it catches the common
// patterns, and sophisticated attacks may bypass detection. Defense in
// depth (the code contract validator downstream) is still required.
package safety

import "regexp"

// Result is the outcome of a prompt check.
type Result struct {
	Safe   bool   // true if no adversarial pattern matched
	Reason string // first matching signature, empty if safe
}

// Filter rejects prompts matching known adversarial signatures.
// It is stateless and safe for concurrent use.
type Filter struct {
	signatures []*regexp.Regexp
}

// defaultSignatures are checked in order; the first match determines the
// reported reason. Order does not affect whether a prompt is rejected.
var defaultSignatures = []string{
	// Instruction-override attempts
	`(?i)ignore\s+(all\s+)?(previous|above|prior)\s+(instructions|prompts|rules)`,
	`(?i)you\s+are\s+now\s+`,
	`(?i)forget\s+(all\s+)?(previous|above|prior)`,
	`(?i)new\s+instructions?\s*:`,
	`(?i)system\s*prompt\s*:`,

	// Code-injection idioms
	`(?i)\beval\s*\(`,
	`(?i)\bFunction\s*\(`,
	`(?i)document\.(cookie|domain|write)`,
	`(?i)window\.(location|open)`,
	`(?i)<script`,

	// Attempts to smuggle external imports into generated code
	`(?i)import\s+.*from\s+['"][^.]`,
}

// NewFilter creates a Filter with the default signature list.
func NewFilter() *Filter {
	signatures := make([]*regexp.Regexp, 0, len(defaultSignatures))
	for _, s := range defaultSignatures {
		signatures = append(signatures, regexp.MustCompile(s))
	}
	return &Filter{signatures: signatures}
}

// Check tests the prompt against every signature and returns on the first
// match. A pure function of the input: no state, no side effects.
func (f *Filter) Check(prompt string) Result {
	for _, re := range f.signatures {
		if re.MatchString(prompt) {
			return Result{Safe: false, Reason: "potential unsafe pattern detected: " + re.String()}
		}
	}
	return Result{Safe: true}
}
