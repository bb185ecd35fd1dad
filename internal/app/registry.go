// Package app implements the presence core: the connection registry, the
// presence coordinator, the room broadcaster and the typing relay.
package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/mkaydev/huddle/internal/core"
	"github.com/mkaydev/huddle/internal/domain"
)

var (
	// ErrDuplicateConnection means a ConnID was registered twice. Correct
	// transport semantics never produce this; it is checked defensively and
	// fails only the offending registration.
	ErrDuplicateConnection = errors.New("duplicate connection")
	// ErrUnknownConnection means an operation referenced a connection that
	// was never registered or already removed.
	ErrUnknownConnection = errors.New("unknown connection")
	// ErrNotInRoom means a leave referenced a room the connection is not in.
	ErrNotInRoom = errors.New("connection not in room")
)

type connEntry struct {
	user domain.User
	room domain.RoomID // empty = connected but not in any room
	peer core.Peer
}

// Registry is the exclusive owner of the connection → (user, room, peer)
// mapping. Every other component queries or mutates membership only through
// it; room membership is derived from the entries, never stored twice.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*connEntry)}
}

// Register inserts a new connection with no room.
func (r *Registry) Register(cid core.ConnID, user domain.User, peer core.Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[cid]; ok {
		return ErrDuplicateConnection
	}
	r.conns[cid] = &connEntry{user: user, peer: peer}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("user", string(user.ID)).Msg("registered connection")
	return nil
}

// SetRoom re-points the connection's current room, implicitly vacating any
// previous one in the same write.
func (r *Registry) SetRoom(cid core.ConnID, room domain.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.conns[cid]
	if !ok {
		return ErrUnknownConnection
	}
	entry.room = room
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(room)).Msg("updated room")
	return nil
}

// ClearRoom sets the current room to none without removing the connection.
// No-op if the connection is unknown or already roomless.
func (r *Registry) ClearRoom(cid core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.conns[cid]; ok {
		entry.room = ""
	}
}

// Remove deletes the connection entirely and reports the last state it
// held. ok is false when the connection was never registered or already
// removed; disconnect handling treats that as benign.
func (r *Registry) Remove(cid core.ConnID) (user domain.User, room domain.RoomID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.conns[cid]
	if !ok {
		return domain.User{}, "", false
	}
	delete(r.conns, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("user", string(entry.user.ID)).Msg("removed connection")
	return entry.user, entry.room, true
}

// UserOf returns the descriptor the connection was opened with.
func (r *Registry) UserOf(cid core.ConnID) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.conns[cid]; ok {
		return entry.user, true
	}
	return domain.User{}, false
}

// RoomOf returns the connection's current room, ok=false when the
// connection is unknown or not in any room.
func (r *Registry) RoomOf(cid core.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.conns[cid]
	if !ok || entry.room == "" {
		return "", false
	}
	return entry.room, true
}

// Occupants returns the distinct user descriptors of every connection whose
// current room equals room. It reflects the latest committed mutation.
func (r *Registry) Occupants(room domain.RoomID) []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(r.conns))
	for _, entry := range r.conns {
		if entry.room == room {
			users = append(users, entry.user)
		}
	}
	return lo.UniqBy(users, func(u domain.User) domain.UserID { return u.ID })
}

// PeerSnap pairs a connection with its outbound endpoint for fan-out.
type PeerSnap struct {
	ConnID core.ConnID
	Peer   core.Peer
}

// MembersOf snapshots the connections currently in room, one entry per
// connection (not per user).
func (r *Registry) MembersOf(room domain.RoomID) []PeerSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PeerSnap, 0, len(r.conns))
	for cid, entry := range r.conns {
		if entry.room == room {
			out = append(out, PeerSnap{ConnID: cid, Peer: entry.peer})
		}
	}
	return out
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
