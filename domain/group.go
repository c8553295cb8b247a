// Package domain contains core concepts of the chat system.
// This file defines Group entities and membership invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

type GroupID string

// Group is the mutable membership record for one chat group.
// The owner is always a member and can never be removed through Leave.
// A given identity is never simultaneously a member and a pending requester.
// Callers are responsible for synchronization; Group itself is not safe
// for concurrent use.
type Group struct {
	ID    GroupID
	Name  string
	Owner string

	members  map[string]struct{}
	requests map[string]time.Time // requester -> request timestamp
}

func NewGroup(id GroupID, name, owner string) *Group {
	g := &Group{
		ID:       id,
		Name:     name,
		Owner:    owner,
		members:  make(map[string]struct{}),
		requests: make(map[string]time.Time),
	}
	g.members[owner] = struct{}{}
	return g
}

func (g *Group) IsOwner(identity string) bool {
	return g.Owner == identity
}

func (g *Group) IsMember(identity string) bool {
	_, ok := g.members[identity]
	return ok
}

// AddMember admits an identity and clears any pending request it had,
// keeping the member and request sets disjoint.
func (g *Group) AddMember(identity string) {
	g.members[identity] = struct{}{}
	delete(g.requests, identity)
}

func (g *Group) RemoveMember(identity string) {
	delete(g.members, identity)
}

func (g *Group) Members() []string {
	members := make([]string, 0, len(g.members))
	for m := range g.members {
		members = append(members, m)
	}
	return members
}

func (g *Group) HasRequest(identity string) bool {
	_, ok := g.requests[identity]
	return ok
}

func (g *Group) AddRequest(identity string, at time.Time) {
	g.requests[identity] = at
}

func (g *Group) RemoveRequest(identity string) {
	delete(g.requests, identity)
}

func (g *Group) PendingRequests() []string {
	requests := make([]string, 0, len(g.requests))
	for r := range g.requests {
		requests = append(requests, r)
	}
	return requests
}

// Info returns an immutable snapshot safe to hand to other goroutines.
type GroupInfo struct {
	ID      GroupID  `json:"id"`
	Name    string   `json:"name"`
	Owner   string   `json:"owner"`
	Members []string `json:"members"`
}

func (g *Group) Info() GroupInfo {
	return GroupInfo{
		ID:      g.ID,
		Name:    g.Name,
		Owner:   g.Owner,
		Members: g.Members(),
	}
}
