// Package ws is the client-facing transport: one persistent WebSocket
// connection per client carrying JSON request/response frames and
// server-pushed events. The client always dials in, so the server never
// needs a route back through NAT or firewalls.
package ws

import (
	"encoding/json"

	"chat-hub/domain"
	"chat-hub/domain/event"
)

// Request is one operation call from the client.
type Request struct {
	ID     string          `json:"id,omitempty"`
	Op     string          `json:"op"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers exactly one Request, correlated by ID.
type Response struct {
	Type   string     `json:"type"` // always "response"
	ID     string     `json:"id,omitempty"`
	Op     string     `json:"op"`
	OK     bool       `json:"ok"`
	Error  *ErrorInfo `json:"error,omitempty"`
	Result any        `json:"result,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventFrame is a server push, not correlated to any request.
type EventFrame struct {
	Type  string            `json:"type"` // always "event"
	Event string            `json:"event"`
	Data  event.DomainEvent `json:"data"`
}

// Per-operation parameter payloads. Validation tags gate what reaches
// the services.

type identityParams struct {
	Identity string `json:"identity" validate:"required,min=1,max=64"`
}

type credentialsParams struct {
	Identity string `json:"identity" validate:"required,min=1,max=64"`
	Secret   string `json:"secret" validate:"required"`
}

type messageParams struct {
	Content string `json:"content" validate:"required,max=4096"`
}

type createGroupParams struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

type groupParams struct {
	GroupID domain.GroupID `json:"group_id" validate:"required"`
}

type inviteParams struct {
	GroupID domain.GroupID `json:"group_id" validate:"required"`
	Invitee string         `json:"invitee" validate:"required,min=1,max=64"`
}

type processInviteParams struct {
	GroupID domain.GroupID `json:"group_id" validate:"required"`
	Accept  bool           `json:"accept"`
}

type processJoinParams struct {
	GroupID   domain.GroupID `json:"group_id" validate:"required"`
	Requester string         `json:"requester" validate:"required,min=1,max=64"`
	Approve   bool           `json:"approve"`
}

type groupMessageParams struct {
	GroupID domain.GroupID `json:"group_id" validate:"required"`
	Content string         `json:"content" validate:"required,max=4096"`
}

type groupFileParams struct {
	GroupID  domain.GroupID `json:"group_id" validate:"required"`
	Filename string         `json:"filename" validate:"required,max=512"`
}
