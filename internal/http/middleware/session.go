package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/session"
)

const sessionKey = "session"

// Resolve parses the session cookie, when present, into the request
// context. It never rejects: guards below decide what a missing session
// means for their route group.
func Resolve(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(session.CookieName)
		if err == nil && raw != "" {
			if s, err := m.Parse(raw); err == nil {
				c.Set(sessionKey, s)
			}
		}
		c.Next()
	}
}

// Current returns the resolved session for this request.
func Current(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}

// RequirePage redirects anonymous page requests to the login screen.
func RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Current(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole sends page requests away unless the session's role is one
// of roles. Runs behind RequirePage, so the session is always present.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, _ := Current(c)
		for _, r := range roles {
			if s.User.Role == r {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, "/client")
		c.Abort()
	}
}

// RequireAPI rejects anonymous JSON requests.
func RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Current(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Login required",
				},
			})
			return
		}
		c.Next()
	}
}
