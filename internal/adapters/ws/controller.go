package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mkaydev/huddle/internal/app"
	"github.com/mkaydev/huddle/internal/auth"
	"github.com/mkaydev/huddle/internal/core"
)

type Controller struct {
	Coord      *app.Coordinator
	Typing     *app.TypingRelay
	Broadcast  *app.Broadcaster
	ReadLimit  int64
	SendBuffer int
}

func NewController(coord *app.Coordinator, typing *app.TypingRelay, broadcast *app.Broadcaster, readLimit int64, sendBuffer int) *Controller {
	return &Controller{
		Coord:      coord,
		Typing:     typing,
		Broadcast:  broadcast,
		ReadLimit:  readLimit,
		SendBuffer: sendBuffer,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the request and registers the connection. A session
// without an authenticated descriptor must never enter the registry, so the
// descriptor is re-checked here even though the auth middleware runs first.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}
	conn.SetReadLimit(ctl.ReadLimit)

	cid := core.ConnID(uuid.NewString())
	peer := newPeer(conn, ctl.SendBuffer)

	if err := ctl.Coord.Connect(cid, user, peer); err != nil {
		log.Error().Err(err).Str("module", "ws").Str("cid", string(cid)).Msg("registration failed")
		peer.Close()
		return
	}
	log.Info().Str("module", "ws").Str("cid", string(cid)).Str("user", user.Username).Msg("connection accepted")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, cid, peer)
	go ctl.readPump(ctx, cancel, cid, peer)
}
