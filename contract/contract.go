package contract

import (
	"context"
	"reflect"

	"chat-hub/domain/event"
)

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type WorkerName string

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one client's push channel. Consume must respect ctx: a
// delivery that cannot complete before ctx is done returns an error and
// the caller treats the client as unreachable.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}
