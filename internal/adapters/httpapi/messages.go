package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/mkaydev/huddle/internal/auth"
	"github.com/mkaydev/huddle/internal/domain"
)

type sendMessageRequest struct {
	GroupID string `json:"group_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func sendMessage(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := auth.CurrentUser(c)

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		msg, err := domain.NewMessage(domain.GroupID(req.GroupID), user, req.Content)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if err := deps.Messages.Store(*msg); err != nil {
			log.Error().Err(err).Str("module", "httpapi").Msg("store message")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

func listMessages(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := deps.Messages.List(domain.GroupID(c.Param("groupId")))
		if err != nil {
			log.Error().Err(err).Str("module", "httpapi").Msg("list messages")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

const summaryWindow = 10

func summarizeGroup(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := deps.Messages.Latest(domain.GroupID(c.Param("groupId")), summaryWindow)
		if err != nil {
			log.Error().Err(err).Str("module", "httpapi").Msg("load messages for summary")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate summary"})
			return
		}
		if len(messages) == 0 {
			c.JSON(http.StatusOK, gin.H{"summary": "No messages available to summarize."})
			return
		}

		messages = lo.Filter(messages, func(m domain.Message, _ int) bool { return m.Content != "" })
		c.JSON(http.StatusOK, gin.H{"summary": deps.Summarizer.Summarize(c.Request.Context(), messages)})
	}
}
