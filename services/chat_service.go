package services

import (
	"log/slog"

	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/runtime"
)

type IChatService interface {
	RegisterClient(identity string, sink contract.EventSink)
	UnregisterClient(identity string)
	SendMessage(identity, content string)
	OnlineUsers() []string
	AnnounceFile(sender, filename string, size int64, mimeType string)
}

// ChatService implements the global operations: presence and global chat.
// It owns no state of its own; the registry holds the sessions and the
// router does the pushing.
type ChatService struct {
	log      *slog.Logger
	registry *runtime.Registry
	router   *runtime.Router
}

func NewChatService(log *slog.Logger, registry *runtime.Registry, router *runtime.Router) *ChatService {
	return &ChatService{log: log, registry: registry, router: router}
}

// RegisterClient binds an identity to its push channel and announces the
// new online set to everyone. Registration is idempotent: a reconnect
// overwrites the previous channel.
func (s *ChatService) RegisterClient(identity string, sink contract.EventSink) {
	s.registry.Register(identity, sink)
	s.log.Info("client registered", "identity", identity)
	s.router.BroadcastPresence()
}

func (s *ChatService) UnregisterClient(identity string) {
	s.registry.Unregister(identity)
	s.log.Info("client unregistered", "identity", identity)
	s.router.BroadcastPresence()
}

// SendMessage stamps the message and pushes it to every online identity,
// sender included; the presentation layer suppresses the sender's
// duplicate display.
func (s *ChatService) SendMessage(identity, content string) {
	msg := domain.NewMessage(identity, content)
	s.router.Broadcast(event.MessageReceived{
		ID:      msg.ID,
		Sender:  msg.Sender,
		Content: msg.Content,
		At:      msg.CreatedAt,
	})
}

func (s *ChatService) OnlineUsers() []string {
	return s.registry.OnlineIdentities()
}

// AnnounceFile notifies everyone except the uploader that a file landed
// in the shared directory. The uploader already saw the file locally.
func (s *ChatService) AnnounceFile(sender, filename string, size int64, mimeType string) {
	s.router.BroadcastExcept(sender, event.FileReceived{
		Sender:   sender,
		Filename: filename,
		Size:     size,
		MimeType: mimeType,
	})
}
