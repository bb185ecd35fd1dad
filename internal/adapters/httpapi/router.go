// Package httpapi exposes the REST surface (users, groups, messages, AI
// summaries) and mounts the websocket endpoint.
package httpapi

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mkaydev/huddle/internal/adapters/ws"
	"github.com/mkaydev/huddle/internal/ai"
	"github.com/mkaydev/huddle/internal/auth"
	"github.com/mkaydev/huddle/internal/config"
	"github.com/mkaydev/huddle/internal/storage"
)

type Deps struct {
	Auth       *auth.Manager
	Users      *storage.UserRepository
	Groups     *storage.GroupRepository
	Messages   *storage.MessageRepository
	Summarizer *ai.Summarizer
	WS         *ws.Controller
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "httpapi").Str("mode", cfg.Mode).Msg("router setup")

	api := r.Group("/api")

	users := api.Group("/users")
	users.POST("/register", registerUser(deps))
	users.POST("/login", loginUser(deps))

	groups := api.Group("/groups", deps.Auth.Protect())
	groups.POST("", auth.RequireAdmin(), createGroup(deps))
	groups.GET("", listGroups(deps))
	groups.GET("/:groupId", findGroup(deps))
	groups.POST("/:groupId/join", joinGroup(deps))
	groups.POST("/:groupId/leave", leaveGroup(deps))
	groups.DELETE("/:groupId", auth.RequireAdmin(), deleteGroup(deps))

	messages := api.Group("/messages", deps.Auth.Protect())
	messages.POST("", sendMessage(deps))
	messages.GET("/:groupId", listMessages(deps))

	api.POST("/ai/summary/:groupId", deps.Auth.Protect(), summarizeGroup(deps))

	api.GET("/ws", deps.Auth.Protect(), func(c *gin.Context) {
		deps.WS.Handle(ctx, c)
	})

	return r
}
