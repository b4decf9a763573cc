// Package chi provides Chi middleware for sessionauth authentication.
// Chi uses standard net/http middleware, so this package provides
// aliases and helpers for convenience.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avisek/sessionauth/middleware"
	"github.com/avisek/sessionauth/store"
)

// Config is an alias for middleware.Config.
type Config = middleware.Config

// SessionResolver is an alias for middleware.SessionResolver.
type SessionResolver = middleware.SessionResolver

// DefaultConfig returns a default middleware configuration.
func DefaultConfig() *Config {
	return middleware.DefaultConfig()
}

// Authenticate creates a Chi middleware that resolves session tokens.
func Authenticate(resolver SessionResolver, cfg *Config) func(http.Handler) http.Handler {
	return middleware.Authenticate(resolver, cfg)
}

// OptionalAuthenticate creates a middleware that resolves session tokens if present.
func OptionalAuthenticate(resolver SessionResolver, cfg *Config) func(http.Handler) http.Handler {
	return middleware.OptionalAuthenticate(resolver, cfg)
}

// User retrieves the resolved user from request context.
func User(r *http.Request) *store.User {
	return middleware.GetUser(r.Context())
}

// UserID retrieves user ID from request context.
func UserID(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}

// RouteContext returns Chi's route context from the request.
func RouteContext(r *http.Request) *chi.Context {
	return chi.RouteContext(r.Context())
}

// URLParam returns a URL parameter from Chi's route context.
func URLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
