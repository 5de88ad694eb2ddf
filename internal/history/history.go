// Package history provides the per-session, append-only version store.
//
// Each session owns an ordered sequence of immutable versions with dense
// ids starting at 1. Rollback appends a copy of a prior version; history
// is monotonic and nothing is ever rewritten in place.
//
// Durability is a single flat JSON file: loaded wholesale at startup,
// rewritten wholesale on every mutation. That is O(total history) per
// write, a documented ceiling acceptable for small per-session histories,
// not a high-throughput store. Cross-process safety uses file locking via
// github.com/gofrs/flock plus atomic temp-file-and-rename writes.
package history

import (
	"errors"
	"time"

	"github.com/uiforge/uiforge/internal/agents"
)

// ErrVersionNotFound indicates the requested session or version does not
// exist. Lookups treat this as an expected outcome, not a fault.
var ErrVersionNotFound = errors.New("version not found")

// Version is one immutable generated-or-modified artifact plus provenance.
type Version struct {
	ID             int           `json:"id"`
	Code           string        `json:"code"`
	Intent         agents.Intent `json:"intent"`
	Explanation    string        `json:"explanation"`
	UserPrompt     string        `json:"userPrompt"`
	ComponentsUsed []string      `json:"componentsUsed"`
	Timestamp      time.Time     `json:"timestamp"`
}

// Summary is the listing view of a Version: never the code or intent body,
// so list responses stay small.
type Summary struct {
	ID             int       `json:"id"`
	UserPrompt     string    `json:"userPrompt"`
	Timestamp      time.Time `json:"timestamp"`
	ComponentsUsed []string  `json:"componentsUsed"`
}

// Artifact is the input to AddVersion: everything a Version carries except
// the store-assigned id and timestamp.
type Artifact struct {
	Code           string
	Intent         agents.Intent
	Explanation    string
	UserPrompt     string
	ComponentsUsed []string
}

// session is the stored per-session record.
type session struct {
	Versions  []Version `json:"versions"`
	CreatedAt time.Time `json:"createdAt"`
}
