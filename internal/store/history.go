package store

import (
	"strings"
	"sync"
)

// History is an address bar of query strings with back/forward
// navigation. Listeners run synchronously after every entry change.
type History struct {
	mu        sync.Mutex
	entries   []string
	index     int
	listeners map[int]func(query string)
	nextID    int
}

// NewHistory creates a history whose current entry is initial
func NewHistory(initial string) *History {
	return &History{
		entries:   []string{strings.TrimPrefix(initial, "?")},
		listeners: make(map[int]func(string)),
	}
}

// Current returns the query string of the current entry
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Len returns the number of entries
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Subscribe registers fn for entry changes and returns a function that
// removes it
func (h *History) Subscribe(fn func(query string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Push adds a new entry after the current one, dropping any forward
// entries, and notifies listeners
func (h *History) Push(query string) {
	query = strings.TrimPrefix(query, "?")

	h.mu.Lock()
	h.entries = append(h.entries[:h.index+1], query)
	h.index = len(h.entries) - 1
	h.mu.Unlock()

	h.notify(query)
}

// Back moves to the previous entry. It reports false at the oldest entry.
func (h *History) Back() bool {
	return h.move(-1)
}

// Forward moves to the next entry. It reports false at the newest entry.
func (h *History) Forward() bool {
	return h.move(1)
}

func (h *History) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	query := h.entries[next]
	h.mu.Unlock()

	h.notify(query)
	return true
}

func (h *History) notify(query string) {
	h.mu.Lock()
	listeners := make([]func(string), 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(query)
	}
}
