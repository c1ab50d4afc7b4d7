package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/http/middleware"
)

func (h *Handler) LandingPage(c *gin.Context) {
	s, loggedIn := middleware.Current(c)
	c.HTML(http.StatusOK, "landing.html", gin.H{
		"LoggedIn": loggedIn,
		"User":     s.User,
	})
}

func (h *Handler) ProfilePage(c *gin.Context) {
	s := currentSession(c)

	// Refresh the profile from the backend; fall back to the session copy.
	user, err := h.Auth.CurrentUser(c.Request.Context(), s.Token)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to refresh profile")
		user = s.User
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"User":        user,
		"AvatarColor": AvatarColor(user.FullName),
	})
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
