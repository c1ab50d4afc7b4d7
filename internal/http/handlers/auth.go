package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/http/middleware"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/session"
)

func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Registered": c.Query("registered") == "1",
		"Email":      "",
	})
}

// Login exchanges the form credentials for a backend token, fetches the
// profile and installs the session cookie.
func (h *Handler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": "Email and password are required",
			"Email": email,
		})
		return
	}

	ctx := c.Request.Context()
	token, err := h.Auth.Login(ctx, email, password)
	if err != nil {
		h.Logger.Warn().Err(err).Str("email", email).Msg("login failed")
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error": err.Error(),
			"Email": email,
		})
		return
	}

	user, err := h.Auth.CurrentUser(ctx, token.AccessToken)
	if err != nil {
		// The token works even when the profile fetch does not; keep the
		// login usable with a minimal profile, as the original did.
		h.Logger.Error().Err(err).Msg("failed to fetch user profile")
		user = models.User{Email: email, IsActive: true}
	}

	value, err := h.Sessions.Issue(session.Session{Token: token.AccessToken, User: user})
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to issue session")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Something went wrong, please retry",
			"Email": email,
		})
		return
	}
	h.Sessions.SetCookie(c, value)

	if user.Role == "agent" || user.Role == "admin" {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/client")
}

func (h *Handler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{
		"Errors":   map[string]string{},
		"Email":    "",
		"FullName": "",
	})
}

func (h *Handler) Signup(c *gin.Context) {
	in := models.UserCreate{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
		FullName: strings.TrimSpace(c.PostForm("full_name")),
	}
	if err := h.Validator.Struct(in); err != nil {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Errors":   fieldErrors(err),
			"Email":    in.Email,
			"FullName": in.FullName,
		})
		return
	}

	if _, err := h.Auth.Signup(c.Request.Context(), in); err != nil {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Errors":   map[string]string{"form": err.Error()},
			"Email":    in.Email,
			"FullName": in.FullName,
		})
		return
	}
	c.Redirect(http.StatusFound, "/login?registered=1")
}

// Logout clears the cookie and tears down any chat sessions still polling
// for this user.
func (h *Handler) Logout(c *gin.Context) {
	if s, ok := middleware.Current(c); ok {
		h.Chats.CloseOwner(s.User.Email)
	}
	h.Sessions.ClearCookie(c)
	c.Redirect(http.StatusFound, "/login")
}
