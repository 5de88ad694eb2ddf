package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/uiforge/uiforge/internal/log"
)

// Store keeps every session's version history in memory and mirrors it to
// a flat JSON file on every mutation.
//
// A single mutex serializes all access, closing the version-id race for
// concurrent requests against one session; the process is the single
// writer of its data file, with flock guarding against a second process.
type Store struct {
	mu       sync.Mutex
	path     string
	lock     *flock.Flock
	sessions map[string]*session
	order    []string // session ids in first-seen order, for stable serialization
	logger   log.Logger
}

// NewStore creates a Store backed by the JSON file at path, loading any
// existing history. A missing file is an empty store, not an error.
func NewStore(path string, logger log.Logger) (*Store, error) {
	s := &Store{
		path:     path,
		lock:     flock.New(path + ".lock"),
		sessions: make(map[string]*session),
		logger:   logger,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// AddVersion appends an artifact to the session's history, creating the
// session lazily, and persists the full store. The returned Version carries
// the next dense id.
func (s *Store) AddVersion(sessionID string, art Artifact) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{CreatedAt: time.Now().UTC()}
		s.sessions[sessionID] = sess
		s.order = append(s.order, sessionID)
	}

	v := Version{
		ID:             len(sess.Versions) + 1,
		Code:           art.Code,
		Intent:         art.Intent,
		Explanation:    art.Explanation,
		UserPrompt:     art.UserPrompt,
		ComponentsUsed: art.ComponentsUsed,
		Timestamp:      time.Now().UTC(),
	}
	sess.Versions = append(sess.Versions, v)

	if err := s.persist(); err != nil {
		// Roll the in-memory append back so memory and disk stay in step.
		sess.Versions = sess.Versions[:len(sess.Versions)-1]
		return Version{}, err
	}

	s.logger.Debug("version saved", "session", sessionID, "version", v.ID)
	return v, nil
}

// Versions returns a summary of every version in the session, oldest first.
// An unknown session yields an empty list.
func (s *Store) Versions(sessionID string) []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := []Summary{}
	if sess, ok := s.sessions[sessionID]; ok {
		for _, v := range sess.Versions {
			summaries = append(summaries, Summary{
				ID:             v.ID,
				UserPrompt:     v.UserPrompt,
				Timestamp:      v.Timestamp,
				ComponentsUsed: v.ComponentsUsed,
			})
		}
	}
	return summaries
}

// Version returns the full record with the given id, or ErrVersionNotFound.
func (s *Store) Version(sessionID string, id int) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(sessionID, id)
}

// Latest returns the session's newest version, or ErrVersionNotFound when
// the session is unknown or empty.
func (s *Store) Latest(sessionID string) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || len(sess.Versions) == 0 {
		return Version{}, ErrVersionNotFound
	}
	return sess.Versions[len(sess.Versions)-1], nil
}

// Rollback appends a new version copying the target's code, intent, and
// component list, with a synthesized explanation and a marker-prefixed
// prompt. It goes through the normal append path: rollback has no special
// storage format, and the target version is untouched.
func (s *Store) Rollback(sessionID string, id int) (Version, error) {
	s.mu.Lock()
	target, err := s.find(sessionID, id)
	s.mu.Unlock()
	if err != nil {
		return Version{}, err
	}

	return s.AddVersion(sessionID, Artifact{
		Code:           target.Code,
		Intent:         target.Intent,
		Explanation:    fmt.Sprintf("Rolled back to version %d: %q", id, target.UserPrompt),
		UserPrompt:     fmt.Sprintf("[Rollback] to v%d", id),
		ComponentsUsed: target.ComponentsUsed,
	})
}

// find looks up a version by exact id. Callers hold s.mu.
func (s *Store) find(sessionID string, id int) (Version, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return Version{}, ErrVersionNotFound
	}
	for _, v := range sess.Versions {
		if v.ID == id {
			return v, nil
		}
	}
	return Version{}, ErrVersionNotFound
}

// pair serializes one [sessionId, session] entry. The file format is an
// ordered list of pairs rather than an object, preserving session order.
type pair struct {
	ID      string
	Session *session
}

func (p pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.ID, p.Session})
}

func (p *pair) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &p.ID); err != nil {
		return err
	}
	p.Session = &session{}
	return json.Unmarshal(raw[1], p.Session)
}

// load reads the data file into memory. Called once at construction.
func (s *Store) load() error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking data file: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading data file: %w", err)
	}

	var pairs []pair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("parsing data file: %w", err)
	}

	for _, p := range pairs {
		s.sessions[p.ID] = p.Session
		s.order = append(s.order, p.ID)
	}
	s.logger.Info("session history loaded", "path", s.path, "sessions", len(pairs))
	return nil
}

// persist rewrites the full data file atomically. Callers hold s.mu.
func (s *Store) persist() error {
	pairs := make([]pair, 0, len(s.order))
	for _, id := range s.order {
		pairs = append(pairs, pair{ID: id, Session: s.sessions[id]})
	}

	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session history: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking data file: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing session history: %w", err)
	}
	return nil
}
