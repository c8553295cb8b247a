// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event.
type Message struct {
	ID        uuid.UUID // unique identifier
	Sender    string
	Content   string
	CreatedAt time.Time
}

// NewMessage stamps a message with its identity and UTC creation time.
// The server clock is the single source of truth for ordering on screen.
func NewMessage(sender, content string) Message {
	return Message{
		ID:        uuid.New(),
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
