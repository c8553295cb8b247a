package runtime

import (
	"context"
	"log/slog"
	"time"

	"chat-hub/contract"
	"chat-hub/domain/event"
)

// Router computes notification audiences and pushes events through the
// Registry.
//
// Delivery is fire-and-forget with respect to the triggering business
// operation: each recipient gets its own goroutine with a bounded
// delivery timeout, so a slow client never stalls the caller. One failed
// or timed-out delivery evicts that identity from the registry; nothing
// is queued or retried.
type Router struct {
	log             *slog.Logger
	registry        *Registry
	deliveryTimeout time.Duration
}

func NewRouter(log *slog.Logger, registry *Registry, deliveryTimeout time.Duration) *Router {
	return &Router{log: log, registry: registry, deliveryTimeout: deliveryTimeout}
}

// Broadcast pushes an event to every online identity, sender included.
func (r *Router) Broadcast(evt event.DomainEvent) {
	for identity, sink := range r.registry.snapshot() {
		r.dispatch(identity, sink, evt)
	}
}

// BroadcastExcept pushes an event to every online identity but one.
// Used for global file announcements, which skip the uploader.
func (r *Router) BroadcastExcept(excluded string, evt event.DomainEvent) {
	for identity, sink := range r.registry.snapshot() {
		if identity == excluded {
			continue
		}
		r.dispatch(identity, sink, evt)
	}
}

// SendTo pushes an event to a single identity. Offline identities are
// skipped silently; a pending invite for an offline user is still stored
// by the group store, it just produces no push.
func (r *Router) SendTo(identity string, evt event.DomainEvent) {
	sink, ok := r.registry.Sink(identity)
	if !ok {
		return
	}
	r.dispatch(identity, sink, evt)
}

// SendToAll pushes an event to each listed identity, typically a group's
// current member set. Members include the sender for group traffic.
func (r *Router) SendToAll(identities []string, evt event.DomainEvent) {
	for _, identity := range identities {
		r.SendTo(identity, evt)
	}
}

// BroadcastPresence pushes the current online set to everyone.
func (r *Router) BroadcastPresence() {
	r.Broadcast(event.OnlineUsersUpdated{Users: r.registry.OnlineIdentities()})
}

func (r *Router) dispatch(identity string, sink contract.EventSink, evt event.DomainEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.deliveryTimeout)
		defer cancel()

		if err := sink.Consume(ctx, evt); err != nil {
			r.log.Warn("push delivery failed, evicting client",
				"identity", identity,
				"event", evt.Kind(),
				"error", err)
			r.registry.Evict(identity, sink)
		}
	}()
}
