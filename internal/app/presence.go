package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mkaydev/huddle/internal/core"
	"github.com/mkaydev/huddle/internal/domain"
)

// Coordinator drives the per-connection presence state machine:
// Connected(no room) → InRoom(room) → Connected(no room) | Disconnected.
//
// Every transition runs under one mutex so that "registry mutation, snapshot
// recomputation, broadcast" is observed as a single unit by racing
// transitions on the same room. Without this, two near-simultaneous joins
// can each snapshot the room before the other's write lands and broadcast a
// list missing an occupant. Delivery itself never blocks (peers are
// TrySend), so holding the lock across the fan-out is bounded by room size.
type Coordinator struct {
	mu        sync.Mutex
	registry  *Registry
	broadcast *Broadcaster
}

func NewCoordinator(registry *Registry, broadcast *Broadcaster) *Coordinator {
	return &Coordinator{registry: registry, broadcast: broadcast}
}

// Connect registers a freshly accepted connection in the Connected(no room)
// state. The transport rejects sessions without an authenticated user before
// ever calling this.
func (c *Coordinator) Connect(cid core.ConnID, user domain.User, peer core.Peer) error {
	return c.registry.Register(cid, user, peer)
}

// UserOf reports the descriptor a live connection was opened with.
func (c *Coordinator) UserOf(cid core.ConnID) (domain.User, bool) {
	return c.registry.UserOf(cid)
}

// Join moves the connection into room. Everyone in the room, the joiner
// included, receives the recomputed occupant snapshot; everyone else also
// receives a "joined" notification.
//
// Joining while still in another room silently re-points the registry row:
// the old room's members get no leave notification and only notice on their
// next snapshot. The client is expected to leave explicitly first; this
// quirk is kept on purpose rather than papered over with a synthetic leave.
func (c *Coordinator) Join(cid core.ConnID, room domain.RoomID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.registry.SetRoom(cid, room); err != nil {
		return err
	}
	user, _ := c.registry.UserOf(cid)
	log.Info().Str("module", "app.presence").Str("cid", string(cid)).Str("room", string(room)).Str("user", user.Username).Msg("join")

	c.broadcast.Broadcast(room, newOccupantsEvent(room, c.registry.Occupants(room)))
	c.broadcast.Broadcast(room, newNotification(NoticeJoined, room, user, "%s has joined the group"), cid)
	return nil
}

// Leave vacates room for the connection and returns it to Connected(no
// room). The remaining members receive the recomputed snapshot and a "left"
// notification. Valid only from InRoom(room).
func (c *Coordinator) Leave(cid core.ConnID, room domain.RoomID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.registry.RoomOf(cid)
	if !ok {
		if _, registered := c.registry.UserOf(cid); !registered {
			return ErrUnknownConnection
		}
		return ErrNotInRoom
	}
	if current != room {
		return ErrNotInRoom
	}

	c.registry.ClearRoom(cid)
	user, _ := c.registry.UserOf(cid)
	log.Info().Str("module", "app.presence").Str("cid", string(cid)).Str("room", string(room)).Str("user", user.Username).Msg("leave")

	c.broadcast.Broadcast(room, newOccupantsEvent(room, c.registry.Occupants(room)))
	c.broadcast.Broadcast(room, newNotification(NoticeLeft, room, user, "%s left the group"))
	return nil
}

// Disconnect tears the connection down from any state. Terminal and
// idempotent: a second disconnect for the same connection does nothing. If
// the connection was in a room its remaining members get a "disconnected"
// notification carrying the user descriptor only — no fresh snapshot is
// pushed for the vacated room.
func (c *Coordinator) Disconnect(cid core.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, room, ok := c.registry.Remove(cid)
	if !ok {
		return
	}
	log.Info().Str("module", "app.presence").Str("cid", string(cid)).Str("user", user.Username).Msg("disconnect")
	if room == "" {
		return
	}
	c.broadcast.Broadcast(room, newNotification(NoticeDisconnected, room, user, "%s disconnected"))
}
