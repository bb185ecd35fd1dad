package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypingRelay_ExcludesOrigin(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	relay := NewTypingRelay(NewBroadcaster(reg))

	p1, p2 := &fakePeer{}, &fakePeer{}
	req.NoError(reg.Register("c1", testUser("alice"), p1))
	req.NoError(reg.Register("c2", testUser("bob"), p2))
	req.NoError(reg.SetRoom("c1", "room-1"))
	req.NoError(reg.SetRoom("c2", "room-1"))

	relay.Start("room-1", "alice", "c1")

	req.Empty(p1.typingEvents(t))
	events := p2.typingEvents(t)
	req.Len(events, 1)
	req.Equal(EventTypingStarted, events[0].Type)
	req.Equal("alice", events[0].Label)

	relay.Stop("room-1", "alice", "c1")

	req.Empty(p1.typingEvents(t))
	events = p2.typingEvents(t)
	req.Len(events, 2)
	req.Equal(EventTypingStopped, events[1].Type)
}

func TestTypingRelay_ScopedToRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	relay := NewTypingRelay(NewBroadcaster(reg))

	p1, p2 := &fakePeer{}, &fakePeer{}
	req.NoError(reg.Register("c1", testUser("alice"), p1))
	req.NoError(reg.Register("c2", testUser("bob"), p2))
	req.NoError(reg.SetRoom("c1", "room-1"))
	req.NoError(reg.SetRoom("c2", "room-2"))

	relay.Start("room-1", "alice", "c1")

	req.Empty(p2.typingEvents(t))
}
