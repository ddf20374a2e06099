package router

import "sync"

// State is the record attached to a history entry.
type State struct {
	URL string `json:"url"`
}

// History records pushed navigations and reports pop events.
type History interface {
	// PushState appends an entry, dropping any forward entries.
	PushState(s State)

	// OnPop registers fn to run when the active entry changes through
	// back or forward navigation. fn receives nil for the initial entry.
	OnPop(fn func(s *State)) (cancel func())
}

// MemoryHistory is an in-memory History. It starts with one initial
// entry that carries no state, like a freshly loaded document.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []*State
	pos       int
	listeners []popListener
	nextID    int
}

type popListener struct {
	id int
	fn func(*State)
}

// NewMemoryHistory creates a history holding only the initial entry.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: []*State{nil}}
}

// PushState appends s after the active entry.
func (h *MemoryHistory) PushState(s State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries[:h.pos+1], &s)
	h.pos = len(h.entries) - 1
}

// OnPop registers a pop listener.
func (h *MemoryHistory) OnPop(fn func(*State)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners = append(h.listeners, popListener{id: id, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Back moves to the previous entry and notifies listeners.
// It returns false when already at the first entry.
func (h *MemoryHistory) Back() bool {
	return h.Go(-1)
}

// Forward moves to the next entry and notifies listeners.
// It returns false when already at the last entry.
func (h *MemoryHistory) Forward() bool {
	return h.Go(1)
}

// Go moves delta entries and notifies listeners. Out of range moves are
// ignored.
func (h *MemoryHistory) Go(delta int) bool {
	h.mu.Lock()
	target := h.pos + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.pos = target

	var state *State
	if s := h.entries[target]; s != nil {
		copied := *s
		state = &copied
	}
	listeners := make([]popListener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	// Listeners may push new entries.
	for _, l := range listeners {
		l.fn(state)
	}
	return true
}

// Current returns the active entry's state, or false on the initial entry.
func (h *MemoryHistory) Current() (State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s := h.entries[h.pos]; s != nil {
		return *s, true
	}
	return State{}, false
}

// Entries returns the pushed states, oldest first.
func (h *MemoryHistory) Entries() []State {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]State, 0, len(h.entries)-1)
	for _, s := range h.entries[1:] {
		out = append(out, *s)
	}
	return out
}

// Len returns the number of pushed entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries) - 1
}
