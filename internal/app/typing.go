package app

import (
	"github.com/mkaydev/huddle/internal/core"
	"github.com/mkaydev/huddle/internal/domain"
)

// TypingRelay forwards typing signals to a room, excluding the origin
// connection. It keeps no state: if a sender disconnects between start and
// stop, no stop is ever relayed — consumers clear stale indicators with
// their own inactivity timeout.
type TypingRelay struct {
	broadcast *Broadcaster
}

func NewTypingRelay(broadcast *Broadcaster) *TypingRelay {
	return &TypingRelay{broadcast: broadcast}
}

func (t *TypingRelay) Start(room domain.RoomID, label string, origin core.ConnID) {
	t.broadcast.Broadcast(room, TypingEvent{Type: EventTypingStarted, Room: room, Label: label}, origin)
}

func (t *TypingRelay) Stop(room domain.RoomID, label string, origin core.ConnID) {
	t.broadcast.Broadcast(room, TypingEvent{Type: EventTypingStopped, Room: room, Label: label}, origin)
}
