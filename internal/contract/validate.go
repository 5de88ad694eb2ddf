package contract

import (
	"fmt"
	"regexp"
	"strings"
)

// Report is the outcome of validating generated code. An empty Issues list
// means the code satisfies the contract.
type Report struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

var (
	// styleAttrRe captures inline style attribute literals. The character
	// class stops at the first closing brace, which is enough to see the
	// property names inside a JSX style object.
	styleAttrRe = regexp.MustCompile(`style\s*=\s*\{[^}]*\}`)

	// componentTagRe captures capitalized (component) tag names.
	componentTagRe = regexp.MustCompile(`<([A-Z][a-zA-Z]*)`)

	// importRe captures the path of every import statement.
	importRe = regexp.MustCompile(`import\s+.*from\s+['"]([^'"]+)['"]`)
)

// allowedStyleProps are the only visual properties permitted in an inline
// style literal (charts size themselves dynamically).
var allowedStyleProps = []string{"height", "width", "background"}

// dangerousAPIs are checked as literal substrings, not parsed expressions.
var dangerousAPIs = []string{"eval(", "Function(", "document.write", "innerHTML"}

// Validate statically checks code against the contract and accumulates one
// human-readable issue per finding. It never mutates the code and never
// fails: violations are advisory warnings surfaced to the caller.
func Validate(code string) Report {
	issues := []string{}

	// Inline styles beyond the allowed visual subset.
	for _, match := range styleAttrRe.FindAllString(code, -1) {
		if !containsAnyProp(match, allowedStyleProps) {
			issues = append(issues, fmt.Sprintf("Inline style detected: %s...", truncate(match, 50)))
		}
	}

	// Non-whitelisted capitalized tags, one issue per distinct tag name.
	seen := make(map[string]bool)
	for _, m := range componentTagRe.FindAllStringSubmatch(code, -1) {
		tag := m[1]
		if whitelisted(tag) || tag == runtimeName || seen[tag] {
			continue
		}
		seen[tag] = true
		issues = append(issues, fmt.Sprintf("Non-whitelisted component used: <%s>", tag))
	}

	// Imports that are neither relative nor the base runtime.
	for _, m := range importRe.FindAllStringSubmatch(code, -1) {
		path := m[1]
		if !strings.HasPrefix(path, ".") && path != runtimeImportPath {
			issues = append(issues, fmt.Sprintf("External import detected: %s", path))
		}
	}

	// Dangerous runtime APIs.
	for _, api := range dangerousAPIs {
		if strings.Contains(code, api) {
			issues = append(issues, fmt.Sprintf("Dangerous API usage: %s", api))
		}
	}

	return Report{Valid: len(issues) == 0, Issues: issues}
}

func containsAnyProp(s string, props []string) bool {
	for _, p := range props {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
