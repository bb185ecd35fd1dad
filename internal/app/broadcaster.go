package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mkaydev/huddle/internal/core"
	"github.com/mkaydev/huddle/internal/domain"
)

// Broadcaster fans an event out to every connection currently in a room.
// Membership is snapshotted at broadcast time from the registry; delivery is
// fire-and-forget per peer, so one unreachable connection never blocks or
// aborts the rest of the room.
type Broadcaster struct {
	registry *Registry
}

func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast marshals event once and delivers it to every member of room
// except exclude (if given). Returns the number of peers the frame was
// handed to.
func (b *Broadcaster) Broadcast(room domain.RoomID, event any, exclude ...core.ConnID) int {
	frame, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcaster").Str("room", string(room)).Msg("marshal event")
		return 0
	}

	var skip core.ConnID
	if len(exclude) > 0 {
		skip = exclude[0]
	}

	sent := 0
	for _, snap := range b.registry.MembersOf(room) {
		if snap.ConnID == skip {
			continue
		}
		if err := snap.Peer.TrySend(core.Frame(frame)); err != nil {
			// Peer is mid-teardown or backed up; skip it and keep going.
			log.Warn().Err(err).Str("module", "app.broadcaster").Str("room", string(room)).Str("cid", string(snap.ConnID)).Msg("delivery skipped")
			continue
		}
		sent++
	}
	log.Debug().Str("module", "app.broadcaster").Str("room", string(room)).Int("sent", sent).Msg("broadcast")
	return sent
}
