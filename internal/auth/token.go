// Package auth issues and validates the JWTs that stand in for the identity
// collaborator: every HTTP request and websocket upgrade must present one.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkaydev/huddle/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the data carried inside a huddle JWT.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// User reconstructs the descriptor the token was issued for.
func (c *Claims) User() domain.User {
	return domain.User{
		ID:       domain.UserID(c.UserID),
		Username: c.Username,
		Email:    c.Email,
		IsAdmin:  c.IsAdmin,
	}
}

// Manager signs and validates tokens with a single HS256 secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed JWT for a specific user.
func (m *Manager) Issue(user domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   string(user.ID),
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "huddle",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and checks the signature and expiration of a JWT string.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
