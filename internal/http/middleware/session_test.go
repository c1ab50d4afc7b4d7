package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/models"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func guardedApp(mgr *session.Manager) *gin.Engine {
	r := gin.New()
	r.Use(Resolve(mgr))

	pages := r.Group("")
	pages.Use(RequirePage())
	pages.GET("/client", func(c *gin.Context) {
		s, _ := Current(c)
		c.String(http.StatusOK, s.User.Email)
	})

	staff := pages.Group("")
	staff.Use(RequireRole("agent", "admin"))
	staff.GET("/dashboard", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	api := r.Group("/api")
	api.Use(RequireAPI())
	api.GET("/tickets", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequirePageRedirectsAnonymous(t *testing.T) {
	r := guardedApp(session.NewManager("s", time.Hour))

	w := get(r, "/client", nil)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("status = %d, location = %q", w.Code, w.Header().Get("Location"))
	}
}

func TestRequireAPIRejectsAnonymous(t *testing.T) {
	r := guardedApp(session.NewManager("s", time.Hour))

	w := get(r, "/api/tickets", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestResolveAcceptsValidCookie(t *testing.T) {
	mgr := session.NewManager("s", time.Hour)
	r := guardedApp(mgr)

	value, err := mgr.Issue(session.Session{Token: "t", User: models.User{Email: "a@b.c"}})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := get(r, "/client", &http.Cookie{Name: session.CookieName, Value: value})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "a@b.c" {
		t.Fatalf("resolved user = %q", w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	mgr := session.NewManager("s", time.Hour)
	r := guardedApp(mgr)

	tests := []struct {
		role string
		want int
	}{
		{"client", http.StatusFound},
		{"agent", http.StatusOK},
		{"admin", http.StatusOK},
	}
	for _, tt := range tests {
		value, err := mgr.Issue(session.Session{Token: "t", User: models.User{Email: "a@b.c", Role: tt.role}})
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		w := get(r, "/dashboard", &http.Cookie{Name: session.CookieName, Value: value})
		if w.Code != tt.want {
			t.Fatalf("role %s: status = %d, want %d", tt.role, w.Code, tt.want)
		}
	}
}

func TestResolveIgnoresForgedCookie(t *testing.T) {
	mgr := session.NewManager("s", time.Hour)
	r := guardedApp(mgr)

	forged, err := session.NewManager("other", time.Hour).Issue(session.Session{Token: "t"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := get(r, "/client", &http.Cookie{Name: session.CookieName, Value: forged})
	if w.Code != http.StatusFound {
		t.Fatalf("forged cookie accepted: status = %d", w.Code)
	}
}
