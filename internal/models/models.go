package models

import "time"

// TicketStatus is the status stored on a ticket by the support backend.
type TicketStatus string

const (
	TicketOpen            TicketStatus = "Open"
	TicketInProgress      TicketStatus = "In Progress"
	TicketResolvedByAI    TicketStatus = "Resolved By AI"
	TicketResolvedByAgent TicketStatus = "Resolved By Agent"
	TicketEscalated       TicketStatus = "Escalated"
	TicketRejected        TicketStatus = "Rejected"
)

// Simplified status values reported by GET /tickets/{id}/status.
const (
	PollProcessing = "Processing"
	PollAIResolved = "AI_Resolved"
	PollEscalated  = "Escalated"
	PollRejected   = "Rejected"
)

type Ticket struct {
	ID                int          `json:"id"`
	Subject           string       `json:"subject"`
	Description       string       `json:"description"`
	Status            TicketStatus `json:"status"`
	Category          string       `json:"category"`
	AIConfidenceScore float64      `json:"ai_confidence_score"`
	AIResponse        string       `json:"ai_response,omitempty"`
	IsSatisfied       *bool        `json:"is_satisfied,omitempty"`
	FeedbackReason    string       `json:"feedback_reason,omitempty"`
	CustomerID        int          `json:"customer_id"`
	CreatedAt         time.Time    `json:"created_at"`
}

type TicketCreate struct {
	Subject     string `json:"subject" validate:"required,min=5"`
	Description string `json:"description" validate:"required,min=10"`
	Category    string `json:"category" validate:"required,oneof=Account 'Team Management' Workflow Notifications Bugs Billing Privacy Guidance Other"`
}

type TicketFeedback struct {
	IsSatisfied    bool   `json:"is_satisfied"`
	FeedbackReason string `json:"feedback_reason,omitempty"`
}

// TicketStatusResponse is the polling payload. The backend sends
// ai_response_body as null while the ticket is still processing.
type TicketStatusResponse struct {
	Status         string `json:"status"`
	AITyping       bool   `json:"ai_typing"`
	AIResponseBody string `json:"ai_response_body"`
}

type TicketPage struct {
	Items []Ticket `json:"items"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Pages int      `json:"pages"`
}

type UserCreate struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type CategorySatisfactionStats struct {
	SatisfiedCount   int     `json:"satisfied_count"`
	UnsatisfiedCount int     `json:"unsatisfied_count"`
	TotalAIResolved  int     `json:"total_ai_resolved"`
	SatisfactionRate float64 `json:"satisfaction_rate"`
}

type DashboardStats struct {
	TotalTickets             int                                  `json:"total_tickets"`
	AIResolvedTickets        int                                  `json:"ai_resolved_tickets"`
	WaitingTicketsCount      int                                  `json:"waiting_tickets_count"`
	AverageResponseTimeHours float64                              `json:"average_response_time_hours"`
	EscalationPercentage     float64                              `json:"escalation_percentage"`
	AISatisfactionByCategory map[string]CategorySatisfactionStats `json:"ai_satisfaction_by_category"`
	LowSatisfactionAlert     bool                                 `json:"low_satisfaction_alert"`
	TotalSatisfactionRate    float64                              `json:"total_satisfaction_rate"`
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatStatus is the view state of an open ticket conversation. It is derived
// from the ticket status plus poll responses and never persisted.
type ChatStatus string

const (
	ChatAnalyzing       ChatStatus = "analyzing"
	ChatProposing       ChatStatus = "proposing"
	ChatWaitingFeedback ChatStatus = "waiting_feedback"
	ChatResolved        ChatStatus = "resolved"
	ChatEscalated       ChatStatus = "escalated"
	ChatRejected        ChatStatus = "rejected"
)

// Terminal reports whether s ends the conversation for the session.
func (s ChatStatus) Terminal() bool {
	return s == ChatResolved || s == ChatEscalated || s == ChatRejected
}

// Categories lists the ticket categories accepted by the backend.
func Categories() []string {
	return []string{
		"Account", "Team Management", "Workflow", "Notifications",
		"Bugs", "Billing", "Privacy", "Guidance", "Other",
	}
}
