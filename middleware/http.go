package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/avisek/sessionauth/store"
)

// SessionResolver resolves an opaque session token to a user.
// A nil user with a nil error means the token is unknown or stale.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*store.User, error)
}

// Common errors
var (
	ErrMissingSession = errors.New("missing session token")
	ErrInvalidSession = errors.New("invalid session token")
)

// Authenticate creates a middleware that resolves session tokens and
// rejects requests without a valid one.
func Authenticate(resolver SessionResolver, cfg *Config) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if path should be skipped
			if ShouldSkip(r, cfg.SkipPaths) {
				next.ServeHTTP(w, r)
				return
			}

			// Extract token
			token := cfg.TokenExtractor(r)
			if token == "" {
				cfg.ErrorHandler(w, r, ErrMissingSession)
				return
			}

			// Resolve session
			user, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}
			if user == nil {
				cfg.ErrorHandler(w, r, ErrInvalidSession)
				return
			}

			// Store user in context
			ctx := SetUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate creates a middleware that resolves session tokens
// if present, but allows unauthenticated requests to proceed.
func OptionalAuthenticate(resolver SessionResolver, cfg *Config) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cfg.TokenExtractor(r)
			if token == "" {
				// No token, continue without authentication
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.ResolveSession(r.Context(), token)
			if err != nil || user == nil {
				// Unknown session, continue without authentication
				next.ServeHTTP(w, r)
				return
			}

			ctx := SetUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
