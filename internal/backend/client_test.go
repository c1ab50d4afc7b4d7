package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, time.Second), srv
}

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewEncoder(w).Encode(models.User{ID: 1})
	})
	defer srv.Close()

	var user models.User
	if err := client.do(context.Background(), http.MethodGet, "/users/me", "secret-token", nil, &user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q", gotAccept)
	}
}

func TestDoNoTokenOmitsHeader(t *testing.T) {
	var gotAuth string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	var out models.User
	if err := client.do(context.Background(), http.MethodGet, "/users/me", "", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization sent without a token: %q", gotAuth)
	}
	if out.ID != 0 {
		t.Fatalf("204 must leave out untouched: %+v", out)
	}
}

func TestDecodeAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail string", http.StatusUnauthorized, `{"detail":"Incorrect email or password"}`, "Incorrect email or password"},
		{"message field", http.StatusBadRequest, `{"message":"invalid ticket"}`, "invalid ticket"},
		{"detail array falls back", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","subject"]}]}`, "422 Unprocessable Entity"},
		{"unparseable body", http.StatusBadGateway, `<html>nope</html>`, "502 Bad Gateway"},
		{"empty body", http.StatusNotFound, ``, "404 Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			defer srv.Close()

			err := client.do(context.Background(), http.MethodGet, "/x", "", nil, nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("got %T, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestLoginIsFormEncoded(t *testing.T) {
	var gotContentType, gotUsername, gotPassword string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotUsername = r.PostForm.Get("username")
		gotPassword = r.PostForm.Get("password")
		_ = json.NewEncoder(w).Encode(models.Token{AccessToken: "tok", TokenType: "bearer"})
	})
	defer srv.Close()

	auth := &AuthService{Client: client}
	token, err := auth.Login(context.Background(), "user@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("Content-Type = %q", gotContentType)
	}
	if gotUsername != "user@example.com" || gotPassword != "hunter22" {
		t.Fatalf("form = %q / %q", gotUsername, gotPassword)
	}
	if token.AccessToken != "tok" {
		t.Fatalf("token = %+v", token)
	}
}

func TestTicketServicePaths(t *testing.T) {
	var gotPath, gotQuery string
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(models.TicketPage{Total: 0})
	})
	defer srv.Close()

	tickets := &TicketService{Client: client}
	if _, err := tickets.List(context.Background(), "tok", 10, 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/tickets/" || gotQuery != "skip=10&limit=25" {
		t.Fatalf("request = %s?%s", gotPath, gotQuery)
	}

	if _, err := tickets.Status(context.Background(), "tok", 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/tickets/42/status" {
		t.Fatalf("status path = %s", gotPath)
	}
}

func TestSubmitFeedbackBody(t *testing.T) {
	var got models.TicketFeedback
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(models.Ticket{ID: 9, Status: models.TicketResolvedByAgent})
	})
	defer srv.Close()

	tickets := &TicketService{Client: client}
	ticket, err := tickets.SubmitFeedback(context.Background(), "tok", 9, models.TicketFeedback{IsSatisfied: true, FeedbackReason: "Rated 5/5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsSatisfied || got.FeedbackReason != "Rated 5/5" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if ticket.Status != models.TicketResolvedByAgent {
		t.Fatalf("ticket = %+v", ticket)
	}
}
