package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mkaydev/huddle/internal/auth"
	"github.com/mkaydev/huddle/internal/domain"
	"github.com/mkaydev/huddle/internal/storage"
)

type createGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func createGroup(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := auth.CurrentUser(c)

		var req createGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		group, err := domain.NewGroup(req.Name, req.Description, user.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if err := deps.Groups.Create(*group); err != nil {
			log.Error().Err(err).Str("module", "httpapi").Msg("create group")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.JSON(http.StatusCreated, group)
	}
}

func listGroups(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups, err := deps.Groups.List()
		if err != nil {
			log.Error().Err(err).Str("module", "httpapi").Msg("list groups")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, groups)
	}
}

func findGroup(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, err := deps.Groups.FindByID(domain.GroupID(c.Param("groupId")))
		if err != nil {
			if errors.Is(err, storage.ErrGroupNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "group not found"})
				return
			}
			log.Error().Err(err).Str("module", "httpapi").Msg("find group")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, group)
	}
}

func joinGroup(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := auth.CurrentUser(c)

		_, err := deps.Groups.Update(domain.GroupID(c.Param("groupId")), func(g *domain.Group) error {
			return g.AddMember(user.ID)
		})
		switch {
		case errors.Is(err, storage.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "group not found"})
		case errors.Is(err, domain.ErrAlreadyMember):
			c.JSON(http.StatusBadRequest, gin.H{"message": "already joined"})
		case err != nil:
			log.Error().Err(err).Str("module", "httpapi").Msg("join group")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "joined successfully"})
		}
	}
}

func leaveGroup(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := auth.CurrentUser(c)

		_, err := deps.Groups.Update(domain.GroupID(c.Param("groupId")), func(g *domain.Group) error {
			return g.RemoveMember(user.ID)
		})
		switch {
		case errors.Is(err, storage.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "group not found"})
		case errors.Is(err, domain.ErrNotMember):
			c.JSON(http.StatusBadRequest, gin.H{"message": "you are not in the group"})
		case err != nil:
			log.Error().Err(err).Str("module", "httpapi").Msg("leave group")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "left successfully"})
		}
	}
}

func deleteGroup(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := deps.Groups.Delete(domain.GroupID(c.Param("groupId")))
		switch {
		case errors.Is(err, storage.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "group not found"})
		case err != nil:
			log.Error().Err(err).Str("module", "httpapi").Msg("delete group")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "group deleted successfully"})
		}
	}
}
