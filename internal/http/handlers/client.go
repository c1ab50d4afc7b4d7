package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/backend"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/chat"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
)

// ClientPage renders the customer portal: the new-ticket form and the
// request history. The chat view on top of it is driven by the JSON
// endpoints below.
func (h *Handler) ClientPage(c *gin.Context) {
	s := currentSession(c)

	page, err := h.Tickets.List(c.Request.Context(), s.Token, 0, 100)
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to list tickets")
	}

	c.HTML(http.StatusOK, "client.html", gin.H{
		"User":       s.User,
		"Tickets":    page.Items,
		"Categories": models.Categories(),
		"LoadError":  err != nil,
	})
}

// @Summary Create a support ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Success 201 {object} models.Ticket
// @Failure 400 {object} map[string]any
// @Router /api/tickets [post]
func (h *Handler) CreateTicket(c *gin.Context) {
	var in models.TicketCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed ticket payload", nil)
		return
	}
	if err := h.Validator.Struct(in); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Ticket validation failed", fieldErrors(err))
		return
	}

	s := currentSession(c)
	ticket, err := h.Tickets.Create(c.Request.Context(), s.Token, in)
	if err != nil {
		h.Logger.Error().Err(err).Msg("ticket creation failed")
		writeError(c, backendStatus(err, http.StatusBadGateway), "TICKET_CREATE_FAILED", err.Error(), nil)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *Handler) ListTickets(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	s := currentSession(c)
	page, err := h.Tickets.List(c.Request.Context(), s.Token, skip, limit)
	if err != nil {
		writeError(c, backendStatus(err, http.StatusBadGateway), "TICKET_LIST_FAILED", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, page)
}

// OpenChat fetches the ticket's current state and starts (or restarts) the
// conversation controller for it. While the derived state is analyzing the
// controller polls the backend until a resolution arrives.
func (h *Handler) OpenChat(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Ticket id must be numeric", nil)
		return
	}

	s := currentSession(c)
	ticket, err := h.Tickets.Get(c.Request.Context(), s.Token, id)
	if err != nil {
		writeError(c, backendStatus(err, http.StatusBadGateway), "TICKET_FETCH_FAILED", err.Error(), nil)
		return
	}

	sess := chat.Open(ticket, chat.Options{
		Client:                h.Tickets,
		Token:                 s.Token,
		Interval:              h.PollInterval,
		SatisfactionThreshold: h.SatisfactionThreshold,
		Logger:                h.Logger,
	})
	h.Chats.Put(s.User.Email, sess)

	c.JSON(http.StatusOK, h.chatState(sess))
}

// ChatEvents streams the conversation's state-diff events over SSE. The
// stream ends when a terminal state is reached, the session is closed, or
// the browser goes away.
func (h *Handler) ChatEvents(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Ticket id must be numeric", nil)
		return
	}

	s := currentSession(c)
	sess, ok := h.Chats.Get(s.User.Email, id)
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No open chat for this ticket", nil)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, open := <-sess.Events():
			if !open {
				return false
			}
			view := chatEventView{Status: ev.Status, TicketStatus: ev.TicketStatus}
			if ev.Message != nil {
				mv := h.messageView(*ev.Message)
				view.Message = &mv
			}
			c.SSEvent("state", view)
			return !ev.Status.Terminal()
		}
	})
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

// @Summary Rate the proposed solution
// @Tags tickets
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/tickets/{id}/rating [post]
func (h *Handler) RateTicket(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Ticket id must be numeric", nil)
		return
	}
	var in ratingRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Rating < 1 || in.Rating > 5 {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Rating must be between 1 and 5", nil)
		return
	}

	s := currentSession(c)
	sess, ok := h.Chats.Get(s.User.Email, id)
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No open chat for this ticket", nil)
		return
	}

	if err := sess.Rate(c.Request.Context(), in.Rating); err != nil {
		if errors.Is(err, chat.ErrNotAwaitingFeedback) {
			writeError(c, http.StatusConflict, "NOT_AWAITING_FEEDBACK", err.Error(), nil)
			return
		}
		h.Logger.Error().Err(err).Int("ticket_id", id).Msg("feedback submission failed")
		writeError(c, backendStatus(err, http.StatusBadGateway), "FEEDBACK_FAILED", "Failed to submit feedback", nil)
		return
	}
	c.JSON(http.StatusOK, h.chatState(sess))
}

// CloseChat tears the conversation down when the view is left.
func (h *Handler) CloseChat(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Ticket id must be numeric", nil)
		return
	}
	s := currentSession(c)
	h.Chats.Remove(s.User.Email, id)
	c.Status(http.StatusNoContent)
}

// backendStatus maps a backend API error onto the response status,
// falling back for transport failures.
func backendStatus(err error, fallback int) int {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 {
		return apiErr.StatusCode
	}
	return fallback
}
