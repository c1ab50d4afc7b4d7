// Package chat owns the conversation view of a single open ticket: the
// status state machine, the resolution poller and feedback submission.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
)

// ErrNotAwaitingFeedback is returned by Rate when the conversation is not
// in the waiting_feedback state.
var ErrNotAwaitingFeedback = errors.New("chat: ticket is not awaiting feedback")

const (
	feedbackThanks  = "Thank you for your feedback! The ticket is marked as RESOLVED."
	feedbackApology = "I apologize that the solution didn't work. Escalating to a human specialist immediately."
)

// TicketClient is the slice of the backend ticket service the controller
// needs: status polling and feedback submission.
type TicketClient interface {
	Status(ctx context.Context, token string, id int) (models.TicketStatusResponse, error)
	SubmitFeedback(ctx context.Context, token string, id int, fb models.TicketFeedback) (models.Ticket, error)
}

// Event is a state-diff notification pushed to the owning view. Message is
// set when an assistant message was appended, TicketStatus when the ticket's
// persisted status changed.
type Event struct {
	Status       models.ChatStatus   `json:"status"`
	TicketStatus models.TicketStatus `json:"ticket_status,omitempty"`
	Message      *models.ChatMessage `json:"message,omitempty"`
}

type Options struct {
	Client                TicketClient
	Token                 string
	Interval              time.Duration
	SatisfactionThreshold int
	Logger                zerolog.Logger
}

// Session is the conversation controller for one open ticket. While the
// state is analyzing it polls the backend on a fixed interval; any other
// state means the poller is stopped. All mutation goes through the mutex,
// so the state machine never regresses out of a terminal state.
type Session struct {
	ticketID int
	opts     Options

	mu           sync.Mutex
	status       models.ChatStatus
	messages     []models.ChatMessage
	events       chan Event
	eventsClosed bool
	rating       bool
	cancel       context.CancelFunc
}

// Open builds the conversation for t. The initial state is derived from the
// ticket's backend status; the poll loop starts only when that state is
// analyzing.
func Open(t models.Ticket, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = 3 * time.Second
	}
	if opts.SatisfactionThreshold <= 0 {
		opts.SatisfactionThreshold = 4
	}

	s := &Session{
		ticketID: t.ID,
		opts:     opts,
		status:   models.ChatAnalyzing,
		events:   make(chan Event, 16),
		messages: []models.ChatMessage{{
			Role:    models.RoleUser,
			Content: fmt.Sprintf("Problem: %s\nDetails: %s", t.Subject, t.Description),
		}},
	}

	switch t.Status {
	case models.TicketResolvedByAI:
		s.status = models.ChatWaitingFeedback
		s.appendAssistantLocked(t.AIResponse)
	case models.TicketEscalated:
		s.status = models.ChatEscalated
		s.appendAssistantLocked(t.AIResponse)
	case models.TicketResolvedByAgent:
		s.status = models.ChatResolved
	case models.TicketRejected:
		s.status = models.ChatRejected
		s.appendAssistantLocked(t.AIResponse)
	}

	if s.status == models.ChatAnalyzing {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go s.poll(ctx)
	}
	return s
}

func (s *Session) TicketID() int {
	return s.ticketID
}

func (s *Session) Status() models.ChatStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Events is the state-diff stream consumed by the owning view. It is closed
// by Close, not by terminal transitions: a rating can still extend the
// conversation after the poller has stopped.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Close stops the poll loop and the event stream. Safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	if !s.eventsClosed {
		s.eventsClosed = true
		close(s.events)
	}
}

// Rate submits the user's rating of the proposed solution. Ratings at or
// above the satisfaction threshold resolve the ticket; lower ratings
// escalate it. A failed backend call leaves state and messages untouched.
func (s *Session) Rate(ctx context.Context, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("chat: rating %d out of range", rating)
	}

	// The rating flag gates the unlocked backend call: a concurrent Rate
	// must not pass the state check while a submission is in flight.
	s.mu.Lock()
	if s.status != models.ChatWaitingFeedback || s.rating {
		s.mu.Unlock()
		return ErrNotAwaitingFeedback
	}
	s.rating = true
	s.mu.Unlock()

	satisfied := rating >= s.opts.SatisfactionThreshold
	fb := models.TicketFeedback{
		IsSatisfied:    satisfied,
		FeedbackReason: fmt.Sprintf("Rated %d/5", rating),
	}
	_, err := s.opts.Client.SubmitFeedback(ctx, s.opts.Token, s.ticketID, fb)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rating = false
	if err != nil {
		return err
	}
	if s.status != models.ChatWaitingFeedback {
		return ErrNotAwaitingFeedback
	}
	s.messages = append(s.messages, models.ChatMessage{
		Role:    models.RoleUser,
		Content: fmt.Sprintf("Rated: %d/5 ⭐", rating),
	})

	reply := models.ChatMessage{Role: models.RoleAssistant, Content: feedbackThanks}
	ticketStatus := models.TicketResolvedByAgent
	s.status = models.ChatResolved
	if !satisfied {
		reply = models.ChatMessage{Role: models.RoleAssistant, Content: feedbackApology}
		ticketStatus = models.TicketEscalated
		s.status = models.ChatEscalated
	}
	s.messages = append(s.messages, reply)
	s.emitLocked(Event{Status: s.status, TicketStatus: ticketStatus, Message: &reply})
	return nil
}

func (s *Session) poll(ctx context.Context) {
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

// pollOnce runs inline in the loop goroutine, so at most one status request
// is in flight; a slow response delays the next tick instead of overlapping
// it. Transport failures are logged and the loop carries on.
func (s *Session) pollOnce(ctx context.Context) {
	resp, err := s.opts.Client.Status(ctx, s.opts.Token, s.ticketID)
	if err != nil {
		if ctx.Err() == nil {
			s.opts.Logger.Error().Err(err).Int("ticket_id", s.ticketID).Msg("ticket status poll failed")
		}
		return
	}
	s.apply(resp)
}

// apply reconciles one poll response. Identical responses are idempotent:
// an unchanged Processing status is a no-op, and a repeated resolution body
// is deduplicated before append.
func (s *Session) apply(resp models.TicketStatusResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != models.ChatAnalyzing {
		return
	}

	var next models.ChatStatus
	var ticketStatus models.TicketStatus
	switch resp.Status {
	case models.PollAIResolved:
		if resp.AIResponseBody == "" {
			return
		}
		next, ticketStatus = models.ChatWaitingFeedback, models.TicketResolvedByAI
	case models.PollEscalated:
		next, ticketStatus = models.ChatEscalated, models.TicketEscalated
	case models.PollRejected:
		next, ticketStatus = models.ChatRejected, models.TicketRejected
	default:
		return
	}

	msg := s.appendAssistantLocked(resp.AIResponseBody)
	s.status = next
	if s.cancel != nil {
		s.cancel()
	}
	s.emitLocked(Event{Status: next, TicketStatus: ticketStatus, Message: msg})
}

// appendAssistantLocked appends an assistant message unless the exact
// content is already present or empty. Caller holds the mutex (or the
// session is not yet shared).
func (s *Session) appendAssistantLocked(content string) *models.ChatMessage {
	if content == "" {
		return nil
	}
	for _, m := range s.messages {
		if m.Content == content {
			return nil
		}
	}
	msg := models.ChatMessage{Role: models.RoleAssistant, Content: content}
	s.messages = append(s.messages, msg)
	return &msg
}

func (s *Session) emitLocked(ev Event) {
	if s.eventsClosed {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}
