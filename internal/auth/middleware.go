package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkaydev/huddle/internal/domain"
)

// ContextUser is the gin context key the middleware stores the
// authenticated descriptor under.
const ContextUser = "auth_user"

// Protect rejects requests that do not carry a valid bearer token. The
// token is read from the Authorization header, or from the "token" query
// parameter so browser websocket clients can authenticate the upgrade.
func (m *Manager) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
			return
		}
		claims, err := m.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, token failed"})
			return
		}
		c.Set(ContextUser, claims.User())
		c.Next()
	}
}

// RequireAdmin must run after Protect.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the descriptor Protect stored for this request.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)
	return user, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
