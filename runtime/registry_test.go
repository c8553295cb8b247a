package runtime

import (
	"context"
	"testing"

	"chat-hub/domain/event"

	"github.com/stretchr/testify/require"
)

type nopSink struct{ name string }

func (nopSink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink := nopSink{name: "alice"}

	// Given no client is connected
	req.Empty(registry.OnlineIdentities())

	// When a client registers
	registry.Register("alice", sink)

	// Then it is online and its sink resolvable
	req.ElementsMatch([]string{"alice"}, registry.OnlineIdentities())
	got, ok := registry.Sink("alice")
	req.True(ok)
	req.Equal(sink, got)
}

func TestRegistry_Register_Overwrites_On_Reconnect(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := nopSink{name: "first"}
	second := nopSink{name: "second"}

	// Given a registered client
	registry.Register("alice", first)

	// When the same identity registers again
	registry.Register("alice", second)

	// Then the new channel replaced the stale one
	req.Len(registry.OnlineIdentities(), 1)
	got, ok := registry.Sink("alice")
	req.True(ok)
	req.Equal(second, got)
}

func TestRegistry_Unregister_Absent_Is_NoOp(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.Unregister("ghost")

	req.Empty(registry.OnlineIdentities())
}

func TestRegistry_Evict_Removes_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := nopSink{name: "alice"}
	registry.Register("alice", alice)
	registry.Register("bob", nopSink{name: "bob"})

	// When one client is evicted after a failed delivery
	registry.Evict("alice", alice)

	// Then only the other remains
	req.ElementsMatch([]string{"bob"}, registry.OnlineIdentities())
	_, ok := registry.Sink("alice")
	req.False(ok)
}

func TestRegistry_Evict_Ignores_Stale_Sink(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	stale := nopSink{name: "stale"}
	fresh := nopSink{name: "fresh"}

	// Given a client that reconnected, replacing its channel
	registry.Register("alice", stale)
	registry.Register("alice", fresh)

	// When the old channel's failure reports back
	registry.Evict("alice", stale)

	// Then the fresh registration survives
	req.ElementsMatch([]string{"alice"}, registry.OnlineIdentities())
	got, ok := registry.Sink("alice")
	req.True(ok)
	req.Equal(fresh, got)
}
