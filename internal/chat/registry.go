package chat

import (
	"fmt"
	"sync"
)

// Registry tracks the open chat session per user and ticket so that the
// event stream and rating endpoints reach the same controller. Opening a
// ticket a second time tears down the previous session first.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

func sessionKey(owner string, ticketID int) string {
	return fmt.Sprintf("%s/%d", owner, ticketID)
}

func (r *Registry) Put(owner string, s *Session) {
	key := sessionKey(owner, s.TicketID())
	r.mu.Lock()
	prev := r.sessions[key]
	r.sessions[key] = s
	r.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (r *Registry) Get(owner string, ticketID int) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionKey(owner, ticketID)]
	return s, ok
}

// Remove tears down one session. Idempotent: removing a session that was
// never opened is a no-op.
func (r *Registry) Remove(owner string, ticketID int) {
	key := sessionKey(owner, ticketID)
	r.mu.Lock()
	s := r.sessions[key]
	delete(r.sessions, key)
	r.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

// CloseOwner tears down every session belonging to one user, on logout.
func (r *Registry) CloseOwner(owner string) {
	prefix := owner + "/"
	r.mu.Lock()
	var closing []*Session
	for key, s := range r.sessions {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			closing = append(closing, s)
			delete(r.sessions, key)
		}
	}
	r.mu.Unlock()
	for _, s := range closing {
		s.Close()
	}
}

// CloseAll tears down everything, on server shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	var closing []*Session
	for _, s := range r.sessions {
		closing = append(closing, s)
	}
	clear(r.sessions)
	r.mu.Unlock()
	for _, s := range closing {
		s.Close()
	}
}
