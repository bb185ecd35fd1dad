package ws

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mkaydev/huddle/internal/app"
	"github.com/mkaydev/huddle/internal/core"
	"github.com/mkaydev/huddle/internal/domain"
)

type roomPayload struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

func (ctl *Controller) handleJoin(cid core.ConnID, p *wsPeer, data []byte) {
	var payload roomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Room == "" {
		ctl.sendError(p, "bad_payload")
		return
	}
	if err := ctl.Coord.Join(cid, domain.RoomID(payload.Room)); err != nil {
		log.Error().Err(err).Str("module", "ws").Str("cid", string(cid)).Msg("join rejected")
		ctl.sendError(p, "join_rejected")
	}
}

func (ctl *Controller) handleLeave(cid core.ConnID, p *wsPeer, data []byte) {
	var payload roomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Room == "" {
		ctl.sendError(p, "bad_payload")
		return
	}
	err := ctl.Coord.Leave(cid, domain.RoomID(payload.Room))
	switch {
	case errors.Is(err, app.ErrNotInRoom), errors.Is(err, app.ErrUnknownConnection):
		ctl.sendError(p, "not_in_room")
	case err != nil:
		log.Error().Err(err).Str("module", "ws").Str("cid", string(cid)).Msg("leave rejected")
		ctl.sendError(p, "leave_rejected")
	}
}

// handleMessage relays a chat message to the rest of the room. Persistence
// happens over the HTTP API; this path is delivery only.
func (ctl *Controller) handleMessage(cid core.ConnID, p *wsPeer, data []byte) {
	var payload struct {
		Type    string         `json:"type"`
		Room    string         `json:"room"`
		Message domain.Message `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Room == "" {
		ctl.sendError(p, "bad_payload")
		return
	}
	ctl.Broadcast.Broadcast(domain.RoomID(payload.Room), app.NewMessageEvent(payload.Message), cid)
}

func (ctl *Controller) handleTypingStart(cid core.ConnID, p *wsPeer, data []byte) {
	room, label, ok := ctl.typingPayload(cid, p, data)
	if !ok {
		return
	}
	ctl.Typing.Start(room, label, cid)
}

func (ctl *Controller) handleTypingStop(cid core.ConnID, p *wsPeer, data []byte) {
	room, label, ok := ctl.typingPayload(cid, p, data)
	if !ok {
		return
	}
	ctl.Typing.Stop(room, label, cid)
}

// typingPayload parses a typing event; the label defaults to the sender's
// username when the client does not set one.
func (ctl *Controller) typingPayload(cid core.ConnID, p *wsPeer, data []byte) (domain.RoomID, string, bool) {
	var payload struct {
		Type  string `json:"type"`
		Room  string `json:"room"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Room == "" {
		ctl.sendError(p, "bad_payload")
		return "", "", false
	}
	label := payload.Label
	if label == "" {
		if user, ok := ctl.Coord.UserOf(cid); ok {
			label = user.Username
		}
	}
	return domain.RoomID(payload.Room), label, true
}

func (ctl *Controller) handlePing(p *wsPeer) {
	ctl.sendJSON(p, map[string]string{"type": "pong"})
}
