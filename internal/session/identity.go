// Package session supplies the current user identity consumed by the listing
// pipeline: who is browsing, and whether that is still being resolved.
package session

import "sync"

// Identity is a snapshot of the current session.
type Identity struct {
	// UserID is empty for anonymous sessions.
	UserID string
	// Loading is true while the session is still being resolved.
	Loading bool
}

// Anonymous is a resolved session without a user.
var Anonymous = Identity{}

// Pending is a session that is still resolving.
var Pending = Identity{Loading: true}

// HasUser reports whether the session is resolved to a user.
func (i Identity) HasUser() bool {
	return !i.Loading && i.UserID != ""
}

// Provider exposes the current session. It is read on every pipeline
// evaluation, so implementations must be cheap.
type Provider interface {
	Current() Identity
}

// Static is a Provider that never changes.
type Static Identity

// Current implements Provider.
func (s Static) Current() Identity { return Identity(s) }

// Holder is a Provider updated once resolution completes. It is safe for
// concurrent use: resolution runs off the event loop.
type Holder struct {
	mu sync.RWMutex
	id Identity
}

// NewHolder returns a holder in the loading state.
func NewHolder() *Holder {
	return &Holder{id: Pending}
}

// Current implements Provider.
func (h *Holder) Current() Identity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.id
}

// Set replaces the held identity.
func (h *Holder) Set(id Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.id = id
}
