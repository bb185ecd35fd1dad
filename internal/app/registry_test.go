package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkaydev/huddle/internal/domain"
)

func TestRegistry_RegisterRejectsDuplicate(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	req.NoError(r.Register("c1", testUser("alice"), &fakePeer{}))
	err := r.Register("c1", testUser("alice"), &fakePeer{})
	req.ErrorIs(err, ErrDuplicateConnection)
	req.Equal(1, r.Len())
}

func TestRegistry_SetRoomUnknownConnection(t *testing.T) {
	r := NewRegistry()
	require.ErrorIs(t, r.SetRoom("ghost", "room-1"), ErrUnknownConnection)
}

func TestRegistry_ClearRoomIsNoopWhenAlreadyClear(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	req.NoError(r.Register("c1", testUser("alice"), &fakePeer{}))
	r.ClearRoom("c1")
	r.ClearRoom("c1")
	r.ClearRoom("ghost")

	_, ok := r.RoomOf("c1")
	req.False(ok)
}

func TestRegistry_RemoveReturnsLastState(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	req.NoError(r.Register("c1", testUser("alice"), &fakePeer{}))
	req.NoError(r.SetRoom("c1", "room-1"))

	user, room, ok := r.Remove("c1")
	req.True(ok)
	req.Equal("alice", user.Username)
	req.Equal(domain.RoomID("room-1"), room)

	_, _, ok = r.Remove("c1")
	req.False(ok)
}

func TestRegistry_OccupantsAreDistinctUsers(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	// Two tabs of the same user plus one other user.
	alice := testUser("alice")
	req.NoError(r.Register("c1", alice, &fakePeer{}))
	req.NoError(r.Register("c2", alice, &fakePeer{}))
	req.NoError(r.Register("c3", testUser("bob"), &fakePeer{}))
	req.NoError(r.SetRoom("c1", "room-1"))
	req.NoError(r.SetRoom("c2", "room-1"))
	req.NoError(r.SetRoom("c3", "room-1"))

	users := r.Occupants("room-1")
	req.Len(users, 2)
	req.ElementsMatch([]string{"alice", "bob"}, usernames(users))
	req.Len(r.MembersOf("room-1"), 3)
}

func TestRegistry_ConnectionNeverInTwoRooms(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	req.NoError(r.Register("c1", testUser("alice"), &fakePeer{}))
	req.NoError(r.SetRoom("c1", "room-1"))
	req.NoError(r.SetRoom("c1", "room-2"))

	req.Empty(r.Occupants("room-1"))
	req.Empty(r.MembersOf("room-1"))
	req.Len(r.Occupants("room-2"), 1)
}
