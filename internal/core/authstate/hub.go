package authstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// StateFactory builds the State for a session ID. The hub calls it once per
// session and hydrates the result before handing it out.
type StateFactory func(sessionID string) (*State, error)

// Hub is the registry of per-session States. Each browser session, resolved
// from its session cookie, owns exactly one State for the lifetime of the
// process; concurrent requests for the same session share it.
type Hub struct {
	factory StateFactory

	mu     sync.Mutex
	states map[string]*State
}

// NewHub constructs a Hub around the given factory.
func NewHub(factory StateFactory) (*Hub, error) {
	if factory == nil {
		return nil, errors.New("authstate: state factory is required")
	}
	return &Hub{
		factory: factory,
		states:  make(map[string]*State),
	}, nil
}

// GetOrCreate returns the State for sessionID, building and hydrating it on
// first use.
func (h *Hub) GetOrCreate(ctx context.Context, sessionID string) (*State, error) {
	if sessionID == "" {
		return nil, errors.New("authstate: session ID is required")
	}

	h.mu.Lock()
	if state, ok := h.states[sessionID]; ok {
		h.mu.Unlock()
		return state, nil
	}
	h.mu.Unlock()

	// Build outside the lock; hydration may hit the token store.
	state, err := h.factory(sessionID)
	if err != nil {
		return nil, fmt.Errorf("build session state: %w", err)
	}
	state.Init(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	// Another request may have built the same session concurrently; keep the
	// first one registered so both callers share a single State.
	if existing, ok := h.states[sessionID]; ok {
		return existing, nil
	}
	h.states[sessionID] = state
	return state, nil
}

// Peek returns the State for sessionID without creating one.
func (h *Hub) Peek(sessionID string) (*State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.states[sessionID]
	return state, ok
}

// Remove drops the State for sessionID from the registry. Stored credentials
// are untouched; a later GetOrCreate rebuilds the State from the store.
func (h *Hub) Remove(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.states, sessionID)
}

// Len reports the number of registered session states.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.states)
}
