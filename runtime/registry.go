// Package runtime holds the live coordination state of the server: the
// registry of connected clients and the router that fans events out to them.
// It contains no business rules; those live in the services package.
package runtime

import (
	"sync"

	"chat-hub/contract"
)

// Registry maps each online identity to its push channel.
//
// It is the single owner of ClientSession state: a session exists exactly
// while its identity is present here. Reads and writes may interleave from
// any goroutine.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]contract.EventSink)}
}

// Register binds an identity to a sink. Registering an identity that is
// already present overwrites its sink, which is how reconnects work: the
// stale channel is simply replaced.
func (r *Registry) Register(identity string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[identity] = sink
}

// Unregister removes an identity. Removing an absent identity is a no-op.
func (r *Registry) Unregister(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, identity)
}

// Evict removes an identity after a failed delivery attempt. It is the
// same removal as Unregister but named separately because eviction is an
// implicit disconnect and triggers no presence broadcast.
//
// The removal only happens while the identity is still bound to the
// failing sink. A client that reconnected in the meantime holds a fresh
// sink, and a stale connection's death must not tear down the new
// registration.
func (r *Registry) Evict(identity string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[identity]; ok && current == sink {
		delete(r.sessions, identity)
	}
}

// Sink returns the push channel for an identity, if online.
func (r *Registry) Sink(identity string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sessions[identity]
	return sink, ok
}

// OnlineIdentities returns an unordered snapshot of who is online.
func (r *Registry) OnlineIdentities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identities := make([]string, 0, len(r.sessions))
	for identity := range r.sessions {
		identities = append(identities, identity)
	}
	return identities
}

// snapshot returns identity/sink pairs for fan-out without holding the
// lock during delivery.
func (r *Registry) snapshot() map[string]contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make(map[string]contract.EventSink, len(r.sessions))
	for identity, sink := range r.sessions {
		sessions[identity] = sink
	}
	return sessions
}
