package ws

import (
	"context"

	"chat-hub/domain/event"
	"chat-hub/errors"
)

// connSink adapts one WebSocket connection to the EventSink contract.
// Events queue in a buffered channel drained by the session's write loop.
// When the buffer stays full past the router's delivery timeout the
// client is considered unreachable and gets evicted.
type connSink struct {
	events chan event.DomainEvent
}

func newConnSink(buffer int) *connSink {
	return &connSink{events: make(chan event.DomainEvent, buffer)}
}

func (s *connSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return errors.ErrUnreachable
	}
}
