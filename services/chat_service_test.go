package services

import (
	"log/slog"
	"testing"
	"time"

	"chat-hub/domain/event"
	"chat-hub/runtime"

	"github.com/stretchr/testify/require"
)

func newChatFixture() (*ChatService, *runtime.Registry) {
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(slog.Default(), registry, 500*time.Millisecond)
	return NewChatService(slog.Default(), registry, router), registry
}

func TestChatService_Register_Broadcasts_Presence(t *testing.T) {
	req := require.New(t)
	chat, _ := newChatFixture()
	alice := newChanSink()

	// When alice comes online
	chat.RegisterClient("alice", alice)

	// Then she appears in the online set and hears the presence push
	req.Equal([]string{"alice"}, chat.OnlineUsers())
	users := waitEvent(t, alice, "users_updated").(event.OnlineUsersUpdated)
	req.Equal([]string{"alice"}, users.Users)
}

func TestChatService_Unregister_Broadcasts_Presence(t *testing.T) {
	req := require.New(t)
	chat, _ := newChatFixture()
	alice, bob := newChanSink(), newChanSink()
	chat.RegisterClient("alice", alice)
	chat.RegisterClient("bob", bob)

	// When bob goes offline
	chat.UnregisterClient("bob")

	// Then alice eventually sees the shrunken set
	req.Eventually(func() bool {
		select {
		case e := <-alice.ch:
			users, ok := e.(event.OnlineUsersUpdated)
			return ok && len(users.Users) == 1 && users.Users[0] == "alice"
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	req.Equal([]string{"alice"}, chat.OnlineUsers())
}

func TestChatService_SendMessage_Echoes_To_Sender(t *testing.T) {
	req := require.New(t)
	chat, _ := newChatFixture()
	alice, bob := newChanSink(), newChanSink()
	chat.RegisterClient("alice", alice)
	chat.RegisterClient("bob", bob)

	chat.SendMessage("alice", "hello world")

	// Global chat reaches everyone, the sender included
	for _, sink := range []chanSink{alice, bob} {
		msg := waitEvent(t, sink, "message").(event.MessageReceived)
		req.Equal("alice", msg.Sender)
		req.Equal("hello world", msg.Content)
		req.NotZero(msg.ID)
		req.False(msg.At.IsZero())
	}
}

func TestChatService_AnnounceFile_Skips_The_Uploader(t *testing.T) {
	req := require.New(t)
	chat, _ := newChatFixture()
	alice, bob := newChanSink(), newChanSink()
	chat.RegisterClient("alice", alice)
	chat.RegisterClient("bob", bob)

	chat.AnnounceFile("alice", "photo.png", 2048, "image/png")

	// Bob hears about the upload
	got := waitEvent(t, bob, "file_received").(event.FileReceived)
	req.Equal("alice", got.Sender)
	req.Equal("photo.png", got.Filename)
	req.Equal(int64(2048), got.Size)
	req.Equal("image/png", got.MimeType)

	// Alice never does; drain long enough for a stray delivery to land
	time.Sleep(100 * time.Millisecond)
	for {
		select {
		case e := <-alice.ch:
			req.NotEqual("file_received", e.Kind())
		default:
			return
		}
	}
}
