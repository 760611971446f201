package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labseat/internal/models"
	"github.com/labseat/internal/service"
	"github.com/labseat/pkg/response"
)

const (
	// ContextKeySession is the key for the resolved session in gin context
	ContextKeySession = "session"
	// ContextKeyUsername is the key for username in gin context
	ContextKeyUsername = "username"
)

// SessionMiddleware resolves the Bearer session token and rejects the
// request when it is missing, invalid or expired
func SessionMiddleware(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := BearerToken(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		session, err := sessions.Resolve(c.Request.Context(), tokenString)
		if err != nil {
			LogDebug("session rejected for %s: %v", c.Request.URL.Path, err)
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ContextKeySession, session)
		c.Set(ContextKeyUsername, session.Username)

		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetSession gets the session from the gin context
func GetSession(c *gin.Context) *models.Session {
	session, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	return session.(*models.Session)
}

// GetUsername gets the username from the gin context
func GetUsername(c *gin.Context) string {
	username, exists := c.Get(ContextKeyUsername)
	if !exists {
		return ""
	}
	return username.(string)
}
