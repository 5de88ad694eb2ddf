package contract

import (
	"regexp"
	"strings"
)

// componentImportRe matches any destructured import of the component set,
// whatever path variant the model produced for it.
var componentImportRe = regexp.MustCompile(`import\s*\{([^}]+)\}\s*from\s*['"][^'"]*components/ui[^'"]*['"]`)

// AutoFix repairs common contract violations in generated code before
// validation: it canonicalizes the component import path, synthesizes the
// import when components are used without one, and ensures a base runtime
// import (with useState when the state-hook idiom appears).
//
// AutoFix is idempotent: applying it to its own output is a no-op.
func AutoFix(code string) string {
	fixed := code

	// Normalize any component import to the canonical path.
	fixed = componentImportRe.ReplaceAllString(fixed, "import {$1} from '"+componentImportPath+"'")

	// Synthesize the component import when tags are present without one.
	if !strings.Contains(fixed, "from '"+componentImportPath+"'") &&
		!strings.Contains(fixed, `from "`+componentImportPath+`"`) {
		if used := DetectComponents(fixed); len(used) > 0 {
			fixed = "import { " + strings.Join(used, ", ") + " } from '" + componentImportPath + "';\n" + fixed
		}
	}

	// Ensure the base runtime import, with interactive-state support when the
	// code uses the state hook.
	switch {
	case strings.Contains(fixed, "useState") &&
		!strings.Contains(fixed, "import "+runtimeName) &&
		!strings.Contains(fixed, "from '"+runtimeImportPath+"'"):
		fixed = "import " + runtimeName + ", { useState } from '" + runtimeImportPath + "';\n" + fixed
	case !strings.Contains(fixed, "import "+runtimeName):
		fixed = "import " + runtimeName + " from '" + runtimeImportPath + "';\n" + fixed
	}

	return fixed
}
