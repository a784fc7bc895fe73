package client

import (
	"strings"
	"sync"
)

// Navigator exposes the application's current location and moves it.
type Navigator interface {
	Location() string
	Navigate(path string)
}

// History is an in-process Navigator that records every navigation.
type History struct {
	mu      sync.RWMutex
	entries []string
}

// NewHistory starts at path, "/" when empty.
func NewHistory(path string) *History {
	if path == "" {
		path = "/"
	}
	return &History{entries: []string{path}}
}

func (h *History) Location() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[len(h.entries)-1]
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, path)
}

// Entries returns a copy of the visited locations, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// locationPath strips query and fragment from a location.
func locationPath(loc string) string {
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		return loc[:i]
	}
	return loc
}
