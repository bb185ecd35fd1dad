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

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func registerUser(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		user, err := domain.NewUser(req.Username, req.Email)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Error().Err(err).Str("module", "httpapi").Msg("hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		if err := deps.Users.Create(*user, hash); err != nil {
			if errors.Is(err, storage.ErrUserExists) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "user already exists"})
				return
			}
			log.Error().Err(err).Str("module", "httpapi").Msg("create user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		token, err := deps.Auth.Issue(*user)
		if err != nil {
			log.Error().Err(err).Str("module", "httpapi").Msg("issue token")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.JSON(http.StatusCreated, authResponse{User: *user, Token: token})
	}
}

func loginUser(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		user, hash, err := deps.Users.FindByEmail(req.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
			return
		}
		match, err := auth.ComparePassword(req.Password, hash)
		if err != nil || !match {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
			return
		}

		token, err := deps.Auth.Issue(user)
		if err != nil {
			log.Error().Err(err).Str("module", "httpapi").Msg("issue token")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, authResponse{User: user, Token: token})
	}
}
