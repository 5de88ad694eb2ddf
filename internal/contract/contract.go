// Package contract enforces the code-generation contract over generated
// interface code: a closed whitelist of components, a canonical component
// import, limited inline styling, relative-only imports, and a dangerous-API
// denylist.
//
// All checks are regex and substring based. This is a deliberate, documented
// heuristic: it cannot catch renamed imports, indirection through variables,
// or obfuscated dangerous calls, and it accepts that false-negative risk in
// exchange for speed and simplicity. Do not upgrade it to a full parser.
package contract

import "strings"

// Whitelist is the closed set of components generated code may use.
// Order is significant: detection results and synthesized imports list
// components in this order.
var Whitelist = []string{
	"Button", "Card", "Input", "Table", "Modal", "Sidebar", "Navbar", "Chart",
}

const (
	// componentImportPath is the canonical import path for the component set.
	componentImportPath = "./components/ui"

	// runtimeName is the base UI runtime; its tags and import are always allowed.
	runtimeName = "React"

	// runtimeImportPath is the base runtime import path.
	runtimeImportPath = "react"
)

// DetectComponents returns the whitelist components whose opening tag occurs
// in the code, in whitelist order. Substring detection on "<Kind" is good
// enough for generated output; this is not a parse.
func DetectComponents(code string) []string {
	var used []string
	for _, name := range Whitelist {
		if strings.Contains(code, "<"+name) {
			used = append(used, name)
		}
	}
	return used
}

// whitelisted reports whether name is in the component whitelist.
func whitelisted(name string) bool {
	for _, w := range Whitelist {
		if name == w {
			return true
		}
	}
	return false
}
