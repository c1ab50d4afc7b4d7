package handlers

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/backend"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/chat"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/http/middleware"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/markdown"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/session"
)

type Handler struct {
	Auth      *backend.AuthService
	Tickets   *backend.TicketService
	Analytics *backend.AnalyticsService
	Sessions  *session.Manager
	Chats     *chat.Registry
	Agents    *AgentDirectory
	Validator *validator.Validate
	Logger    zerolog.Logger

	PollInterval          time.Duration
	SatisfactionThreshold int
}

func writeError(c *gin.Context, status int, code, message string, details any) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

// fieldErrors flattens validator output into a field -> message map for
// inline display.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["form"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "This field is required"
		case "min":
			out[fe.Field()] = "Must be at least " + fe.Param() + " characters"
		case "email":
			out[fe.Field()] = "Must be a valid email address"
		case "oneof":
			out[fe.Field()] = "Not an accepted value"
		default:
			out[fe.Field()] = "Invalid value"
		}
	}
	return out
}

func currentSession(c *gin.Context) session.Session {
	s, _ := middleware.Current(c)
	return s
}

type chatMessageView struct {
	Role    string        `json:"role"`
	Content string        `json:"content"`
	HTML    template.HTML `json:"html,omitempty"`
}

type chatStateView struct {
	TicketID int               `json:"ticket_id"`
	Status   models.ChatStatus `json:"status"`
	Messages []chatMessageView `json:"messages"`
}

type chatEventView struct {
	Status       models.ChatStatus   `json:"status"`
	TicketStatus models.TicketStatus `json:"ticket_status,omitempty"`
	Message      *chatMessageView    `json:"message,omitempty"`
}

// messageView renders assistant markdown into HTML; user messages stay
// plain text.
func (h *Handler) messageView(m models.ChatMessage) chatMessageView {
	v := chatMessageView{Role: m.Role, Content: m.Content}
	if m.Role == models.RoleAssistant {
		rendered, err := markdown.Render(m.Content)
		if err != nil {
			h.Logger.Error().Err(err).Msg("markdown render failed")
			rendered = template.HTMLEscapeString(m.Content)
		}
		v.HTML = template.HTML(rendered)
	}
	return v
}

func (h *Handler) messageViews(msgs []models.ChatMessage) []chatMessageView {
	out := make([]chatMessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, h.messageView(m))
	}
	return out
}

func (h *Handler) chatState(s *chat.Session) chatStateView {
	return chatStateView{
		TicketID: s.TicketID(),
		Status:   s.Status(),
		Messages: h.messageViews(s.Messages()),
	}
}
