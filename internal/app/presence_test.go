package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkaydev/huddle/internal/core"
)

func TestJoin_BothMembersSeeEachOther(t *testing.T) {
	req := require.New(t)
	coord, _ := newTestCoordinator()

	p1, p2 := &fakePeer{}, &fakePeer{}
	req.NoError(coord.Connect("c1", testUser("alice"), p1))
	req.NoError(coord.Connect("c2", testUser("bob"), p2))

	req.NoError(coord.Join("c1", "room-1"))
	req.NoError(coord.Join("c2", "room-1"))

	// alice saw her own snapshot, then the one including bob.
	snaps := p1.occupantEvents(t)
	req.Len(snaps, 2)
	req.ElementsMatch([]string{"alice"}, usernames(snaps[0].Users))
	req.ElementsMatch([]string{"alice", "bob"}, usernames(snaps[1].Users))

	// bob only ever saw the complete room.
	snaps = p2.occupantEvents(t)
	req.Len(snaps, 1)
	req.ElementsMatch([]string{"alice", "bob"}, usernames(snaps[0].Users))

	// The "joined: bob" notification went to alice only; nobody is told
	// about their own join.
	notes := p1.notifications(t)
	req.Len(notes, 1)
	req.Equal(NoticeJoined, notes[0].Kind)
	req.Equal("bob", notes[0].User.Username)
	req.Empty(p2.notifications(t))
}

func TestJoin_SnapshotIncludesEarlierJoiner(t *testing.T) {
	req := require.New(t)
	coord, _ := newTestCoordinator()

	p1, p2 := &fakePeer{}, &fakePeer{}
	req.NoError(coord.Connect("c1", testUser("alice"), p1))
	req.NoError(coord.Connect("c2", testUser("bob"), p2))

	req.NoError(coord.Join("c1", "room-1"))
	req.NoError(coord.Join("c2", "room-1"))

	first := p2.occupantEvents(t)[0]
	req.Contains(usernames(first.Users), "alice")
}

func TestJoin_UnknownConnection(t *testing.T) {
	coord, _ := newTestCoordinator()
	require.ErrorIs(t, coord.Join("ghost", "room-1"), ErrUnknownConnection)
}

func TestJoinThenLeaveRestoresSnapshot(t *testing.T) {
	req := require.New(t)
	coord, reg := newTestCoordinator()

	p1, p2 := &fakePeer{}, &fakePeer{}
	req.NoError(coord.Connect("c1", testUser("alice"), p1))
	req.NoError(coord.Connect("c2", testUser("bob"), p2))
	req.NoError(coord.Join("c1", "room-1"))

	before := usernames(reg.Occupants("room-1"))

	req.NoError(coord.Join("c2", "room-1"))
	req.NoError(coord.Leave("c2", "room-1"))

	req.ElementsMatch(before, usernames(reg.Occupants("room-1")))

	// alice got the shrunk snapshot and a "left" notification.
	snaps := p1.occupantEvents(t)
	req.ElementsMatch([]string{"alice"}, usernames(snaps[len(snaps)-1].Users))
	notes := p1.notifications(t)
	req.Equal(NoticeLeft, notes[len(notes)-1].Kind)
	req.Equal("bob", notes[len(notes)-1].User.Username)
}

func TestLeave_RequiresMatchingRoom(t *testing.T) {
	req := require.New(t)
	coord, _ := newTestCoordinator()

	req.NoError(coord.Connect("c1", testUser("alice"), &fakePeer{}))
	req.ErrorIs(coord.Leave("c1", "room-1"), ErrNotInRoom)

	req.NoError(coord.Join("c1", "room-1"))
	req.ErrorIs(coord.Leave("c1", "room-2"), ErrNotInRoom)

	req.ErrorIs(coord.Leave("ghost", "room-1"), ErrUnknownConnection)
}

func TestDisconnect_NotifiesRoomAndIsIdempotent(t *testing.T) {
	req := require.New(t)
	coord, reg := newTestCoordinator()

	p1, p2 := &fakePeer{}, &fakePeer{}
	req.NoError(coord.Connect("c1", testUser("alice"), p1))
	req.NoError(coord.Connect("c2", testUser("bob"), p2))
	req.NoError(coord.Join("c1", "room-1"))
	req.NoError(coord.Join("c2", "room-1"))

	coord.Disconnect("c1")

	_, ok := reg.UserOf("c1")
	req.False(ok)
	req.ElementsMatch([]string{"bob"}, usernames(reg.Occupants("room-1")))

	notes := p2.notifications(t)
	req.Equal(NoticeDisconnected, notes[len(notes)-1].Kind)
	req.Equal("alice", notes[len(notes)-1].User.Username)

	// A second disconnect must not produce anything new.
	framesBefore := p2.frameCount()
	coord.Disconnect("c1")
	req.Equal(framesBefore, p2.frameCount())
}

func TestDisconnect_WithoutRoomIsSilent(t *testing.T) {
	req := require.New(t)
	coord, _ := newTestCoordinator()

	p1, p2 := &fakePeer{}, &fakePeer{}
	req.NoError(coord.Connect("c1", testUser("alice"), p1))
	req.NoError(coord.Connect("c2", testUser("bob"), p2))
	req.NoError(coord.Join("c2", "room-1"))

	framesBefore := p2.frameCount()
	coord.Disconnect("c1")
	req.Equal(framesBefore, p2.frameCount())
}

func TestJoin_SwitchingRoomsSkipsLeaveNotification(t *testing.T) {
	req := require.New(t)
	coord, reg := newTestCoordinator()

	p1, p2 := &fakePeer{}, &fakePeer{}
	req.NoError(coord.Connect("c1", testUser("alice"), p1))
	req.NoError(coord.Connect("c2", testUser("carol"), p2))
	req.NoError(coord.Join("c2", "room-1"))
	req.NoError(coord.Join("c1", "room-1"))

	framesBefore := p2.frameCount()

	// alice hops to room-2 without leaving room-1 first.
	req.NoError(coord.Join("c1", "room-2"))

	req.ElementsMatch([]string{"carol"}, usernames(reg.Occupants("room-1")))
	req.ElementsMatch([]string{"alice"}, usernames(reg.Occupants("room-2")))

	// carol hears nothing about the departure.
	req.Equal(framesBefore, p2.frameCount())
}

func TestConcurrentJoins_FinalSnapshotIsComplete(t *testing.T) {
	req := require.New(t)
	coord, _ := newTestCoordinator()

	const n = 8
	peers := make([]*fakePeer, n)
	for i := 0; i < n; i++ {
		peers[i] = &fakePeer{}
		cid := core.ConnID(fmt.Sprintf("c%d", i))
		req.NoError(coord.Connect(cid, testUser(fmt.Sprintf("user%d", i)), peers[i]))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cid := core.ConnID(fmt.Sprintf("c%d", i))
			if err := coord.Join(cid, "room-1"); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	// The last transition broadcast the full room to everyone: no matter
	// how the joins interleaved, each member's final snapshot holds all n
	// users.
	for i, p := range peers {
		snaps := p.occupantEvents(t)
		req.NotEmpty(snaps, "peer %d received no snapshot", i)
		req.Len(snaps[len(snaps)-1].Users, n, "peer %d final snapshot incomplete", i)
	}
}
