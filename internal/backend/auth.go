package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
)

type AuthService struct {
	Client *Client
}

func (s *AuthService) Signup(ctx context.Context, in models.UserCreate) (models.User, error) {
	var user models.User
	err := s.Client.do(ctx, http.MethodPost, "/users/", "", in, &user)
	return user, err
}

// Login exchanges credentials for a bearer token. The backend exposes an
// OAuth2 password flow, so the request is form encoded with a username
// field holding the email.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var token models.Token
	err := s.Client.postForm(ctx, "/login/access_token", form, &token)
	return token, err
}

func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.User, error) {
	var user models.User
	err := s.Client.do(ctx, http.MethodGet, "/users/me", token, nil, &user)
	return user, err
}
