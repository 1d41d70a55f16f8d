package session

import (
	"sync"
	"time"

	"github.com/hpungsan/ecokitchen/internal/risk"
)

// Entry is one classified item in a session's history.
type Entry struct {
	Category   string     `json:"category"`
	Label      risk.Label `json:"label"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// History is an append-only log with a full clear. Safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries []Entry
}

// Append adds e. No dedup, no cap.
func (h *History) Append(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
}

// List returns a most-recent-first copy. Never nil.
func (h *History) List() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}

// Clear removes every entry and returns how many were removed.
func (h *History) Clear() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.entries)
	h.entries = nil
	return n
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
