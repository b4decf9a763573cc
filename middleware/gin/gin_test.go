package gin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/avisek/sessionauth/middleware"
	"github.com/avisek/sessionauth/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockResolver is a SessionResolver for testing.
type mockResolver struct {
	user *store.User
	err  error
}

func (m *mockResolver) ResolveSession(ctx context.Context, token string) (*store.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func TestGinAuthenticate_ValidSession(t *testing.T) {
	resolver := &mockResolver{
		user: &store.User{ID: "user123", Email: "a@example.com"},
	}

	r := gin.New()
	r.Use(Authenticate(resolver, nil))
	r.GET("/profile", func(c *gin.Context) {
		userID := UserID(c)
		if userID != "user123" {
			t.Errorf("expected user ID 'user123', got '%s'", userID)
		}
		user := User(c)
		if user == nil || user.Email != "a@example.com" {
			t.Errorf("expected user in context, got %+v", user)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: middleware.DefaultCookieName, Value: "valid-token"})
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestGinAuthenticate_MissingToken(t *testing.T) {
	resolver := &mockResolver{}

	r := gin.New()
	r.Use(Authenticate(resolver, nil))
	r.GET("/profile", func(c *gin.Context) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestGinAuthenticate_UnknownSession(t *testing.T) {
	resolver := &mockResolver{}

	r := gin.New()
	r.Use(Authenticate(resolver, nil))
	r.GET("/profile", func(c *gin.Context) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: middleware.DefaultCookieName, Value: "stale-token"})
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestGinAuthenticate_SkipPath(t *testing.T) {
	resolver := &mockResolver{
		err: errors.New("should not be called"),
	}

	cfg := DefaultConfig()
	cfg.SkipPaths = []string{"/health"}

	r := gin.New()
	r.Use(Authenticate(resolver, cfg))
	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestGinOptionalAuthenticate_WithoutSession(t *testing.T) {
	resolver := &mockResolver{
		err: errors.New("should not be called"),
	}

	r := gin.New()
	r.Use(OptionalAuthenticate(resolver, nil))
	r.GET("/", func(c *gin.Context) {
		userID := UserID(c)
		if userID != "" {
			t.Errorf("expected empty user ID, got '%s'", userID)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}
