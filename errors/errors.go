package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrGroupNotFound      = fmt.Errorf("group not found")
	ErrInviteNotFound     = fmt.Errorf("no pending invite for this group")
	ErrRequestNotFound    = fmt.Errorf("no pending join request from this user")
	ErrFileNotFound       = fmt.Errorf("file not found")
	ErrNotOwner           = fmt.Errorf("caller is not the group owner")
	ErrNotMember          = fmt.Errorf("user is not a member of the group")
	ErrAlreadyMember      = fmt.Errorf("user is already a member of the group")
	ErrDuplicateRequest   = fmt.Errorf("a join request is already pending")
	ErrOwnerCannotLeave   = fmt.Errorf("the group owner cannot leave the group")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet requirements")
	ErrUnreachable        = fmt.Errorf("client unreachable")
	ErrDownloadTimeout    = fmt.Errorf("download timed out")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)

// CodeOf collapses a domain error into a transport-level code.
// Unknown errors are reported as internal.
func CodeOf(err error) string {
	switch {
	case stderrors.Is(err, ErrGroupNotFound),
		stderrors.Is(err, ErrInviteNotFound),
		stderrors.Is(err, ErrRequestNotFound),
		stderrors.Is(err, ErrFileNotFound):
		return "not_found"
	case stderrors.Is(err, ErrNotOwner),
		stderrors.Is(err, ErrNotMember):
		return "forbidden"
	case stderrors.Is(err, ErrAlreadyMember),
		stderrors.Is(err, ErrDuplicateRequest),
		stderrors.Is(err, ErrOwnerCannotLeave),
		stderrors.Is(err, ErrUserAlreadyExists):
		return "conflict"
	case stderrors.Is(err, ErrInvalidCredentials):
		return "unauthorized"
	case stderrors.Is(err, ErrInvalidPassword):
		return "bad_request"
	case stderrors.Is(err, ErrDownloadTimeout):
		return "timeout"
	default:
		return "internal"
	}
}
