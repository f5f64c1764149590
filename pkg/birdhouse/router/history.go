package router

import (
	"net/url"
	"sync"
)

// HistoryEntry is a single entry in the navigation history.
// State is the resolved document URL the entry was created for and Location
// is the address shown for it.
type HistoryEntry struct {
	State    string
	Location *url.URL
}

// HistoryWriter records the address of a navigation before any I/O happens.
type HistoryWriter interface {
	Replace(state string, location *url.URL)
}

// History is an in-memory session history. It is safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
}

// NewHistory creates a new empty history.
func NewHistory() *History {
	return &History{
		entries: make([]HistoryEntry, 0),
	}
}

// Push adds a new entry on top of the history.
func (h *History) Push(state string, location *url.URL) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, HistoryEntry{
		State:    state,
		Location: location,
	})
}

// Replace overwrites the top entry, or pushes one if the history is empty.
func (h *History) Replace(state string, location *url.URL) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{State: state, Location: location}
	if len(h.entries) == 0 {
		h.entries = append(h.entries, entry)
		return
	}
	h.entries[len(h.entries)-1] = entry
}

// Pop removes and returns the top entry.
// Returns nil if the history is empty.
func (h *History) Pop() *HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return nil
	}
	entry := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return &entry
}

// Current returns a copy of the top entry without removing it.
// Returns nil if the history is empty.
func (h *History) Current() *HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return nil
	}
	entry := h.entries[len(h.entries)-1]
	return &entry
}

// IsEmpty returns true if the history has no entries.
func (h *History) IsEmpty() bool {
	return h.Len() == 0
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Clear removes all entries.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = h.entries[:0]
}
