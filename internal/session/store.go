package session

import (
	"sync"
	"time"

	"github.com/hpungsan/ecokitchen/internal/errors"
	"github.com/hpungsan/ecokitchen/internal/logging"
	"github.com/hpungsan/ecokitchen/internal/metrics"
)

// DefaultIdleTimeout is how long an untouched session survives.
const DefaultIdleTimeout = 12 * time.Hour

// Store keeps live sessions by ID. Idle sessions are evicted lazily on access.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration

	now func() time.Time
}

// NewStore creates a Store. idleTimeout <= 0 uses DefaultIdleTimeout.
func NewStore(idleTimeout time.Duration) *Store {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Store{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create registers and returns a new session.
func (st *Store) Create() *Session {
	s := New()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	st.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(st.sessions)))

	logging.Debug().Str("session_id", s.ID).Msg("session created")
	return s
}

// Get returns the session with id or SESSION_NOT_FOUND.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()

	s, ok := st.sessions[id]
	if !ok {
		return nil, errors.NewSessionNotFound(id)
	}
	return s, nil
}

// Delete removes the session with id. Reports whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, ok := st.sessions[id]
	delete(st.sessions, id)
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
	return ok
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked()
	return len(st.sessions)
}

// sweepLocked evicts idle sessions. Caller holds st.mu.
func (st *Store) sweepLocked() {
	cutoff := st.now().Add(-st.idleTimeout)
	evicted := 0
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.ActiveSessions.Set(float64(len(st.sessions)))
		logging.Debug().Int("evicted", evicted).Msg("idle sessions evicted")
	}
}
