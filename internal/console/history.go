package console

import (
	"slices"
	"sync"
)

// History is the list of submitted command lines. It outlives any single
// Console so that reloads keep it.
type History struct {
	mu      sync.RWMutex
	entries []string
}

// NewHistory returns a history seeded with entries, oldest first.
func NewHistory(entries ...string) *History {
	return &History{entries: slices.Clone(entries)}
}

// Add appends line unless it repeats the most recent entry.
func (h *History) Add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Recent returns the entry pos steps back from the newest, where 0 is the
// newest.
func (h *History) Recent(pos int) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	idx := len(h.entries) - 1 - pos
	if pos < 0 || idx < 0 {
		return "", false
	}
	return h.entries[idx], true
}

// Entries returns a copy, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.entries)
}
