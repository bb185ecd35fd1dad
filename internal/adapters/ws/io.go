package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mkaydev/huddle/internal/core"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, cid core.ConnID, p *wsPeer) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-p.send:
			if !ok {
				return
			}
			if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "ws").Str("cid", string(cid)).Msg("writePump set deadline")
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Str("cid", string(cid)).Msg("writePump write error")
				return
			}
		}
	}
}

// readPump owns the connection's inbound side. It exits on any read error,
// which is also how silent disconnects surface (the transport's own
// keep-alive eventually fails the read); the deferred Disconnect is the
// terminal transition for this connection.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, cid core.ConnID, p *wsPeer) {
	defer func() {
		log.Info().Str("module", "ws").Str("cid", string(cid)).Msg("readPump closing")
		ctl.Coord.Disconnect(cid)
		cancel()
		p.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := p.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "ws").Str("cid", string(cid)).Msg("readPump read error")
				}
				return
			}
			ctl.dispatch(cid, p, data)
		}
	}
}

func (ctl *Controller) dispatch(cid core.ConnID, p *wsPeer, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "ws").Str("cid", string(cid)).Msg("bad json")
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(cid, p, data)
	case "leave":
		ctl.handleLeave(cid, p, data)
	case "message":
		ctl.handleMessage(cid, p, data)
	case "typing_start":
		ctl.handleTypingStart(cid, p, data)
	case "typing_stop":
		ctl.handleTypingStop(cid, p, data)
	case "ping":
		ctl.handlePing(p)
	default:
		log.Warn().Str("module", "ws").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) sendJSON(p *wsPeer, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("sendJSON marshal")
		return
	}
	_ = p.TrySend(b)
}

func (ctl *Controller) sendError(p *wsPeer, msg string) {
	ctl.sendJSON(p, map[string]any{"type": "error", "error": msg})
}
