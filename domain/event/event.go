// Package event defines the push notifications delivered to connected clients.
// Events are immutable value types; the Kind string doubles as the wire
// discriminator on the client transport.
package event

import (
	"time"

	"chat-hub/domain"

	"github.com/google/uuid"
)

type DomainEvent interface {
	Kind() string
}

// MessageReceived is the global chat broadcast, pushed to every online
// identity including the sender. The presentation layer suppresses the
// duplicate display on the sender's side.
type MessageReceived struct {
	ID      uuid.UUID `json:"id"`
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

func (MessageReceived) Kind() string { return "message" }

// OnlineUsersUpdated carries the full online identity set after a
// register or unregister.
type OnlineUsersUpdated struct {
	Users []string `json:"users"`
}

func (OnlineUsersUpdated) Kind() string { return "users_updated" }

type GroupCreated struct {
	Group domain.GroupInfo `json:"group"`
}

func (GroupCreated) Kind() string { return "group_created" }

type GroupInviteReceived struct {
	GroupID   domain.GroupID `json:"group_id"`
	GroupName string         `json:"group_name"`
	Inviter   string         `json:"inviter"`
}

func (GroupInviteReceived) Kind() string { return "group_invite" }

// JoinRequestReceived is pushed to the group owner only.
type JoinRequestReceived struct {
	GroupID   domain.GroupID `json:"group_id"`
	GroupName string         `json:"group_name"`
	Requester string         `json:"requester"`
}

func (JoinRequestReceived) Kind() string { return "join_request" }

// GroupUpdated is pushed to current members after any membership change.
type GroupUpdated struct {
	Group domain.GroupInfo `json:"group"`
}

func (GroupUpdated) Kind() string { return "group_updated" }

type GroupMessageReceived struct {
	ID        uuid.UUID      `json:"id"`
	GroupID   domain.GroupID `json:"group_id"`
	GroupName string         `json:"group_name"`
	Sender    string         `json:"sender"`
	Content   string         `json:"content"`
	At        time.Time      `json:"at"`
}

func (GroupMessageReceived) Kind() string { return "group_message" }

// JoinRequestProcessed tells the requester whether the owner approved.
type JoinRequestProcessed struct {
	GroupID   domain.GroupID `json:"group_id"`
	GroupName string         `json:"group_name"`
	Approved  bool           `json:"approved"`
}

func (JoinRequestProcessed) Kind() string { return "join_request_processed" }

type AddedToGroup struct {
	GroupID   domain.GroupID `json:"group_id"`
	GroupName string         `json:"group_name"`
}

func (AddedToGroup) Kind() string { return "added_to_group" }

// RemovedFromGroup is part of the client notification contract but no
// server operation emits it today; there is no kick operation.
type RemovedFromGroup struct {
	GroupID   domain.GroupID `json:"group_id"`
	GroupName string         `json:"group_name"`
}

func (RemovedFromGroup) Kind() string { return "removed_from_group" }

// FileReceived announces a completed upload to everyone except the uploader.
type FileReceived struct {
	Sender   string `json:"sender"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func (FileReceived) Kind() string { return "file_received" }

// GroupFileReceived announces a shared file to group members, sender included.
type GroupFileReceived struct {
	GroupID   domain.GroupID `json:"group_id"`
	GroupName string         `json:"group_name"`
	Sender    string         `json:"sender"`
	Filename  string         `json:"filename"`
	Size      int64          `json:"size"`
}

func (GroupFileReceived) Kind() string { return "group_file_received" }
