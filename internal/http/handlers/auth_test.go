package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/backend"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/chat"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/http/middleware"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/session"
)

func newAuthApp(t *testing.T, backendURL string) (*gin.Engine, *session.Manager) {
	t.Helper()

	client := backend.New(backendURL, time.Second)
	mgr := session.NewManager("test-secret", time.Hour)
	h := &Handler{
		Auth:      &backend.AuthService{Client: client},
		Tickets:   &backend.TicketService{Client: client},
		Sessions:  mgr,
		Chats:     chat.NewRegistry(),
		Validator: validator.New(),
		Logger:    zerolog.Nop(),
	}
	t.Cleanup(h.Chats.CloseAll)

	r := gin.New()
	r.SetHTMLTemplate(Templates())
	r.Use(middleware.Resolve(mgr))
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/signup", h.SignupPage)
	r.POST("/signup", h.Signup)
	r.POST("/logout", h.Logout)
	return r, mgr
}

func postForm(r *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func fakeAuthBackend(t *testing.T, role string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/access_token":
			_ = r.ParseForm()
			if r.PostForm.Get("password") != "hunter22" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(models.Token{AccessToken: "granted-token", TokenType: "bearer"})
		case "/users/me":
			_ = json.NewEncoder(w).Encode(models.User{ID: 2, Email: "user@example.com", FullName: "Test User", Role: role, IsActive: true})
		case "/users/":
			var in models.UserCreate
			_ = json.NewDecoder(r.Body).Decode(&in)
			_ = json.NewEncoder(w).Encode(models.User{ID: 3, Email: in.Email, FullName: in.FullName, Role: "client", IsActive: true})
		default:
			http.NotFound(w, r)
		}
	}))
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", session.CookieName)
	return nil
}

func TestLoginClientRedirect(t *testing.T) {
	srv := fakeAuthBackend(t, "client")
	defer srv.Close()
	r, mgr := newAuthApp(t, srv.URL)

	w := postForm(r, "/login", url.Values{"email": {"user@example.com"}, "password": {"hunter22"}}, nil)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/client" {
		t.Fatalf("redirect = %q, want /client", loc)
	}

	c := sessionCookie(t, w)
	if !c.HttpOnly {
		t.Fatal("session cookie must be HTTP-only")
	}
	s, err := mgr.Parse(c.Value)
	if err != nil {
		t.Fatalf("cookie not parseable: %v", err)
	}
	if s.Token != "granted-token" || s.User.Email != "user@example.com" {
		t.Fatalf("session = %+v", s)
	}
}

func TestLoginAgentRedirectsToDashboard(t *testing.T) {
	srv := fakeAuthBackend(t, "agent")
	defer srv.Close()
	r, _ := newAuthApp(t, srv.URL)

	w := postForm(r, "/login", url.Values{"email": {"agent@example.com"}, "password": {"hunter22"}}, nil)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("status = %d, location = %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := fakeAuthBackend(t, "client")
	defer srv.Close()
	r, _ := newAuthApp(t, srv.URL)

	w := postForm(r, "/login", url.Values{"email": {"user@example.com"}, "password": {"wrong"}}, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Incorrect email or password") {
		t.Fatal("backend error message not surfaced")
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			t.Fatal("session cookie set on failed login")
		}
	}
}

func TestLoginMissingFields(t *testing.T) {
	r, _ := newAuthApp(t, "http://127.0.0.1:1")

	w := postForm(r, "/login", url.Values{"email": {"user@example.com"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSignupValidation(t *testing.T) {
	r, _ := newAuthApp(t, "http://127.0.0.1:1")

	w := postForm(r, "/signup", url.Values{
		"email":     {"not-an-email"},
		"password":  {"short"},
		"full_name": {"Test User"},
	}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSignupRedirectsToLogin(t *testing.T) {
	srv := fakeAuthBackend(t, "client")
	defer srv.Close()
	r, _ := newAuthApp(t, srv.URL)

	w := postForm(r, "/signup", url.Values{
		"email":     {"new@example.com"},
		"password":  {"longenough1"},
		"full_name": {"New User"},
	}, nil)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login?registered=1" {
		t.Fatalf("status = %d, location = %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	srv := fakeAuthBackend(t, "client")
	defer srv.Close()
	r, mgr := newAuthApp(t, srv.URL)

	value, err := mgr.Issue(session.Session{Token: "t", User: models.User{Email: "user@example.com"}})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := postForm(r, "/logout", url.Values{}, &http.Cookie{Name: session.CookieName, Value: value})

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("status = %d, location = %q", w.Code, w.Header().Get("Location"))
	}
	c := sessionCookie(t, w)
	if c.Value != "" && c.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", c)
	}
}
