package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
)

type TicketService struct {
	Client *Client
}

func (s *TicketService) Create(ctx context.Context, token string, in models.TicketCreate) (models.Ticket, error) {
	var ticket models.Ticket
	err := s.Client.do(ctx, http.MethodPost, "/tickets/", token, in, &ticket)
	return ticket, err
}

func (s *TicketService) List(ctx context.Context, token string, skip, limit int) (models.TicketPage, error) {
	var page models.TicketPage
	path := fmt.Sprintf("/tickets/?skip=%d&limit=%d", skip, limit)
	err := s.Client.do(ctx, http.MethodGet, path, token, nil, &page)
	return page, err
}

func (s *TicketService) Get(ctx context.Context, token string, id int) (models.Ticket, error) {
	var ticket models.Ticket
	err := s.Client.do(ctx, http.MethodGet, fmt.Sprintf("/tickets/%d", id), token, nil, &ticket)
	return ticket, err
}

// Status fetches the simplified resolution state used by the chat poller.
func (s *TicketService) Status(ctx context.Context, token string, id int) (models.TicketStatusResponse, error) {
	var status models.TicketStatusResponse
	err := s.Client.do(ctx, http.MethodGet, fmt.Sprintf("/tickets/%d/status", id), token, nil, &status)
	return status, err
}

func (s *TicketService) SubmitFeedback(ctx context.Context, token string, id int, fb models.TicketFeedback) (models.Ticket, error) {
	var ticket models.Ticket
	err := s.Client.do(ctx, http.MethodPost, fmt.Sprintf("/tickets/%d/feedback", id), token, fb, &ticket)
	return ticket, err
}
