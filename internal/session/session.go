// Package session replaces the original browser-storage token/user pair
// with an explicit server-side session: a JWT-signed HTTP-only cookie
// carrying the backend bearer token and the user profile, initialized on
// login and cleared on logout.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
)

const CookieName = "support_session"

var ErrInvalidSession = errors.New("session: invalid or expired")

// Session is the per-request view of the logged-in user. Token is the
// bearer token attached to every backend call.
type Session struct {
	Token string
	User  models.User
}

type claims struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs s into a cookie value.
func (m *Manager) Issue(s Session) (string, error) {
	now := time.Now()
	c := claims{
		Token: s.Token,
		User:  s.User,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.User.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

// Parse verifies a cookie value and recovers the session.
func (m *Manager) Parse(raw string) (Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidSession
	}
	return Session{Token: c.Token, User: c.User}, nil
}

// SetCookie installs the session cookie on the response.
func (m *Manager) SetCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, int(m.ttl.Seconds()), "/", "", false, true)
}

// ClearCookie removes the session cookie, on logout.
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}
