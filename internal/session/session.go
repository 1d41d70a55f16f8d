// Package session holds per-user history and the presentation state that
// gates recipe recommendations.
package session

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/ecokitchen/internal/errors"
	"github.com/hpungsan/ecokitchen/internal/risk"
)

// State is the presentation state of a session.
type State int

const (
	Idle State = iota
	Classified
	RecipesRequested
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Classified:
		return "classified"
	case RecipesRequested:
		return "recipes_requested"
	default:
		return "unknown"
	}
}

// Session is one user's interaction context. Safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	history History

	mu           sync.Mutex
	state        State
	last         *risk.Assessment
	lastCategory string
	lastSeen     time.Time
}

// New creates an Idle session with a fresh ULID.
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        newID(now),
		CreatedAt: now,
		lastSeen:  now,
	}
}

func newID(now time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// Record applies a classify action: the assessment is appended to history
// and the state resets to a fresh Classified, discarding RecipesRequested.
func (s *Session) Record(category string, a risk.Assessment) {
	now := time.Now().UTC()
	s.history.Append(Entry{Category: category, Label: a.Label, RecordedAt: now})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Classified
	s.last = &a
	s.lastCategory = category
	s.lastSeen = now
}

// RequestRecipes moves an eligible session to RecipesRequested and returns
// the category of the last classified item. Sessions that are Idle or whose
// last assessment is not eligible fail with RECIPES_LOCKED.
func (s *Session) RequestRecipes() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle || s.last == nil || !s.last.RecipeEligible {
		return "", errors.NewRecipesLocked(s.lockedState())
	}
	s.state = RecipesRequested
	s.lastSeen = time.Now().UTC()
	return s.lastCategory, nil
}

// lockedState describes why recipes are locked. Caller holds s.mu.
func (s *Session) lockedState() string {
	if s.state == Idle {
		return Idle.String()
	}
	return "classified_not_eligible"
}

// State returns the current presentation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Last returns the most recent assessment and its category, if any.
func (s *Session) Last() (risk.Assessment, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return risk.Assessment{}, "", false
	}
	return *s.last, s.lastCategory, true
}

// RecipesEligible reports whether the recipe action may be offered.
func (s *Session) RecipesEligible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != Idle && s.last != nil && s.last.RecipeEligible
}

// History returns entries most-recent-first.
func (s *Session) History() []Entry {
	s.touch()
	return s.history.List()
}

// HistoryLen returns the number of history entries.
func (s *Session) HistoryLen() int {
	return s.history.Len()
}

// ClearHistory empties the history. The presentation state is unchanged.
func (s *Session) ClearHistory() int {
	s.touch()
	return s.history.Clear()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now().UTC()
	s.mu.Unlock()
}

// LastSeen returns the time of the last interaction.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
