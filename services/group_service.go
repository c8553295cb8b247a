package services

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/errors"
	"chat-hub/runtime"

	"github.com/samber/lo"
)

type IGroupService interface {
	CreateGroup(name, owner string) (domain.GroupID, error)
	AvailableGroups() []domain.GroupInfo
	UserGroups(identity string) []domain.GroupInfo
	InviteToGroup(groupID domain.GroupID, inviter, invitee string) error
	RequestJoinGroup(groupID domain.GroupID, identity string) error
	ProcessJoinRequest(groupID domain.GroupID, owner, requester string, approve bool) error
	ProcessInvite(groupID domain.GroupID, identity string, accept bool) error
	SendGroupMessage(groupID domain.GroupID, identity, content string) error
	SendGroupFile(groupID domain.GroupID, identity, filename string, size int64) error
	PendingRequests(groupID domain.GroupID, owner string) ([]string, error)
	PendingInvites(identity string) []domain.GroupInfo
	LeaveGroup(groupID domain.GroupID, identity string) error
	GroupInfo(groupID domain.GroupID) (domain.GroupInfo, error)
}

// GroupService is the group lifecycle state machine. Per (group, identity)
// pair a user is exactly one of: non-member, invited, join-requested or
// member.
//
// All group state lives behind one RWMutex, so a single operation is
// atomic with respect to every group's state. Notifications go out through
// the router after the mutation and never hold the lock.
type GroupService struct {
	mu             sync.RWMutex
	log            *slog.Logger
	router         *runtime.Router
	groups         map[domain.GroupID]*domain.Group
	pendingInvites map[string]map[domain.GroupID]struct{} // invitee -> group ids
	counter        atomic.Int64
}

func NewGroupService(log *slog.Logger, router *runtime.Router) *GroupService {
	return &GroupService{
		log:            log,
		router:         router,
		groups:         make(map[domain.GroupID]*domain.Group),
		pendingInvites: make(map[string]map[domain.GroupID]struct{}),
	}
}

// nextGroupID assigns ids monotonically within the process lifetime.
// Ids restart at GROUP_1 after a restart; nothing persists them.
func (s *GroupService) nextGroupID() domain.GroupID {
	return domain.GroupID(fmt.Sprintf("GROUP_%d", s.counter.Add(1)))
}

// CreateGroup creates a group whose member set is exactly the owner and
// announces it to every online identity.
func (s *GroupService) CreateGroup(name, owner string) (domain.GroupID, error) {
	id := s.nextGroupID()
	group := domain.NewGroup(id, name, owner)

	s.mu.Lock()
	s.groups[id] = group
	info := group.Info()
	s.mu.Unlock()

	s.log.Info("group created", "group_id", id, "name", name, "owner", owner)
	s.router.Broadcast(event.GroupCreated{Group: info})
	return id, nil
}

func (s *GroupService) AvailableGroups() []domain.GroupInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(lo.Values(s.groups), func(g *domain.Group, _ int) domain.GroupInfo {
		return g.Info()
	})
}

func (s *GroupService) UserGroups(identity string) []domain.GroupInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := lo.Filter(lo.Values(s.groups), func(g *domain.Group, _ int) bool {
		return g.IsMember(identity)
	})
	return lo.Map(members, func(g *domain.Group, _ int) domain.GroupInfo {
		return g.Info()
	})
}

// InviteToGroup records a pending invite and notifies the invitee if
// online. Only the owner may invite. Re-inviting an already invited user
// overwrites the existing invite, which makes the call idempotent; that
// is deliberately looser than RequestJoinGroup's duplicate handling.
func (s *GroupService) InviteToGroup(groupID domain.GroupID, inviter, invitee string) error {
	s.mu.Lock()
	group, ok := s.groups[groupID]
	if !ok {
		s.mu.Unlock()
		return errors.ErrGroupNotFound
	}
	if !group.IsOwner(inviter) {
		s.mu.Unlock()
		return errors.ErrNotOwner
	}
	if group.IsMember(invitee) {
		s.mu.Unlock()
		return errors.ErrAlreadyMember
	}
	if _, ok := s.pendingInvites[invitee]; !ok {
		s.pendingInvites[invitee] = make(map[domain.GroupID]struct{})
	}
	s.pendingInvites[invitee][groupID] = struct{}{}
	name := group.Name
	s.mu.Unlock()

	s.log.Info("invite sent", "group_id", groupID, "invitee", invitee)
	s.router.SendTo(invitee, event.GroupInviteReceived{
		GroupID:   groupID,
		GroupName: name,
		Inviter:   inviter,
	})
	return nil
}

// RequestJoinGroup files a join request with the owner. A second request
// before the first is resolved is a conflict, not a no-op.
func (s *GroupService) RequestJoinGroup(groupID domain.GroupID, identity string) error {
	s.mu.Lock()
	group, ok := s.groups[groupID]
	if !ok {
		s.mu.Unlock()
		return errors.ErrGroupNotFound
	}
	if group.IsMember(identity) {
		s.mu.Unlock()
		return errors.ErrAlreadyMember
	}
	if group.HasRequest(identity) {
		s.mu.Unlock()
		return errors.ErrDuplicateRequest
	}
	group.AddRequest(identity, time.Now().UTC())
	owner, name := group.Owner, group.Name
	s.mu.Unlock()

	s.log.Info("join request filed", "group_id", groupID, "requester", identity)
	s.router.SendTo(owner, event.JoinRequestReceived{
		GroupID:   groupID,
		GroupName: name,
		Requester: identity,
	})
	return nil
}

// ProcessJoinRequest resolves a pending request. Only the owner may call
// it. The requester learns the outcome either way; on approval the whole
// group sees the membership change.
func (s *GroupService) ProcessJoinRequest(groupID domain.GroupID, owner, requester string, approve bool) error {
	s.mu.Lock()
	group, ok := s.groups[groupID]
	if !ok {
		s.mu.Unlock()
		return errors.ErrGroupNotFound
	}
	if !group.IsOwner(owner) {
		s.mu.Unlock()
		return errors.ErrNotOwner
	}
	if !group.HasRequest(requester) {
		s.mu.Unlock()
		return errors.ErrRequestNotFound
	}
	group.RemoveRequest(requester)
	if approve {
		group.AddMember(requester)
	}
	info := group.Info()
	s.mu.Unlock()

	s.log.Info("join request processed",
		"group_id", groupID, "requester", requester, "approved", approve)

	s.router.SendTo(requester, event.JoinRequestProcessed{
		GroupID:   groupID,
		GroupName: info.Name,
		Approved:  approve,
	})
	if approve {
		s.router.SendTo(requester, event.AddedToGroup{GroupID: groupID, GroupName: info.Name})
		s.router.SendToAll(info.Members, event.GroupUpdated{Group: info})
	}
	return nil
}

// ProcessInvite resolves a pending invite for the invited user. Rejecting
// just clears the invite.
func (s *GroupService) ProcessInvite(groupID domain.GroupID, identity string, accept bool) error {
	s.mu.Lock()
	group, ok := s.groups[groupID]
	if !ok {
		s.mu.Unlock()
		return errors.ErrGroupNotFound
	}
	invites, ok := s.pendingInvites[identity]
	if !ok {
		s.mu.Unlock()
		return errors.ErrInviteNotFound
	}
	if _, ok := invites[groupID]; !ok {
		s.mu.Unlock()
		return errors.ErrInviteNotFound
	}
	delete(invites, groupID)
	if len(invites) == 0 {
		delete(s.pendingInvites, identity)
	}
	if accept {
		group.AddMember(identity)
	}
	info := group.Info()
	s.mu.Unlock()

	s.log.Info("invite processed", "group_id", groupID, "identity", identity, "accepted", accept)

	if accept {
		s.router.SendTo(identity, event.AddedToGroup{GroupID: groupID, GroupName: info.Name})
		s.router.SendToAll(info.Members, event.GroupUpdated{Group: info})
	}
	return nil
}

// SendGroupMessage pushes a message to all current members, sender
// included. Group traffic echoes to the sender's own channel, unlike the
// global file announcement.
func (s *GroupService) SendGroupMessage(groupID domain.GroupID, identity, content string) error {
	s.mu.RLock()
	group, ok := s.groups[groupID]
	if !ok {
		s.mu.RUnlock()
		return errors.ErrGroupNotFound
	}
	if !group.IsMember(identity) {
		s.mu.RUnlock()
		return errors.ErrNotMember
	}
	name, members := group.Name, group.Members()
	s.mu.RUnlock()

	msg := domain.NewMessage(identity, content)
	s.router.SendToAll(members, event.GroupMessageReceived{
		ID:        msg.ID,
		GroupID:   groupID,
		GroupName: name,
		Sender:    msg.Sender,
		Content:   msg.Content,
		At:        msg.CreatedAt,
	})
	return nil
}

// SendGroupFile announces a file from the shared directory to all current
// members, sender included.
func (s *GroupService) SendGroupFile(groupID domain.GroupID, identity, filename string, size int64) error {
	s.mu.RLock()
	group, ok := s.groups[groupID]
	if !ok {
		s.mu.RUnlock()
		return errors.ErrGroupNotFound
	}
	if !group.IsMember(identity) {
		s.mu.RUnlock()
		return errors.ErrNotMember
	}
	name, members := group.Name, group.Members()
	s.mu.RUnlock()

	s.router.SendToAll(members, event.GroupFileReceived{
		GroupID:   groupID,
		GroupName: name,
		Sender:    identity,
		Filename:  filename,
		Size:      size,
	})
	return nil
}

// PendingRequests lists open join requests. Owner only.
func (s *GroupService) PendingRequests(groupID domain.GroupID, owner string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[groupID]
	if !ok {
		return nil, errors.ErrGroupNotFound
	}
	if !group.IsOwner(owner) {
		return nil, errors.ErrNotOwner
	}
	return group.PendingRequests(), nil
}

// PendingInvites lists the groups an identity has open invites for.
func (s *GroupService) PendingInvites(identity string) []domain.GroupInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invites, ok := s.pendingInvites[identity]
	if !ok {
		return nil
	}
	infos := make([]domain.GroupInfo, 0, len(invites))
	for groupID := range invites {
		if group, ok := s.groups[groupID]; ok {
			infos = append(infos, group.Info())
		}
	}
	return infos
}

// LeaveGroup removes a non-owner member; the owner can never leave since
// groups are never deleted and cannot be left ownerless.
func (s *GroupService) LeaveGroup(groupID domain.GroupID, identity string) error {
	s.mu.Lock()
	group, ok := s.groups[groupID]
	if !ok {
		s.mu.Unlock()
		return errors.ErrGroupNotFound
	}
	if !group.IsMember(identity) {
		s.mu.Unlock()
		return errors.ErrNotMember
	}
	if group.IsOwner(identity) {
		s.mu.Unlock()
		return errors.ErrOwnerCannotLeave
	}
	group.RemoveMember(identity)
	info := group.Info()
	s.mu.Unlock()

	s.log.Info("member left group", "group_id", groupID, "identity", identity)
	s.router.SendToAll(info.Members, event.GroupUpdated{Group: info})
	return nil
}

func (s *GroupService) GroupInfo(groupID domain.GroupID) (domain.GroupInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[groupID]
	if !ok {
		return domain.GroupInfo{}, errors.ErrGroupNotFound
	}
	return group.Info(), nil
}
