package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewGroup_Owner_Is_Member(t *testing.T) {
	req := require.New(t)

	g := NewGroup("GROUP_1", "Team", "alice")

	req.True(g.IsOwner("alice"))
	req.True(g.IsMember("alice"))
	req.Equal([]string{"alice"}, g.Members())
}

func TestGroup_AddMember_Clears_Pending_Request(t *testing.T) {
	req := require.New(t)
	g := NewGroup("GROUP_1", "Team", "alice")
	g.AddRequest("bob", time.Now())
	req.True(g.HasRequest("bob"))

	g.AddMember("bob")

	// Member and requester sets stay disjoint
	req.True(g.IsMember("bob"))
	req.False(g.HasRequest("bob"))
	req.Empty(g.PendingRequests())
}

func TestGroup_Info_Is_A_Snapshot(t *testing.T) {
	req := require.New(t)
	g := NewGroup("GROUP_1", "Team", "alice")

	info := g.Info()
	g.AddMember("bob")

	req.Equal([]string{"alice"}, info.Members)
	req.ElementsMatch([]string{"alice", "bob"}, g.Info().Members)
}
