// Package middleware provides HTTP middleware for sessionauth authentication.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avisek/sessionauth/store"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// UserKey is the context key for storing the resolved user.
	UserKey contextKey = "sessionauth_user"
	// UserIDKey is the context key for storing user ID.
	UserIDKey contextKey = "sessionauth_user_id"
)

// DefaultCookieName is the session cookie read by DefaultConfig.
const DefaultCookieName = "session_id"

// TokenExtractor extracts a session token from an HTTP request.
type TokenExtractor func(r *http.Request) string

// ErrorHandler handles authentication errors.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Config holds middleware configuration.
type Config struct {
	// TokenExtractor extracts the session token from the request.
	// Defaults to the session_id cookie, falling back to a Bearer header.
	TokenExtractor TokenExtractor

	// ErrorHandler handles authentication errors.
	// Defaults to returning 401 Unauthorized.
	ErrorHandler ErrorHandler

	// SkipPaths are paths that skip authentication.
	SkipPaths []string
}

// DefaultConfig returns a default middleware configuration.
func DefaultConfig() *Config {
	return &Config{
		TokenExtractor: ChainExtractors(
			ExtractFromCookie(DefaultCookieName),
			ExtractFromHeader("Authorization", "Bearer"),
		),
		ErrorHandler: DefaultErrorHandler,
	}
}

// ExtractFromHeader creates a TokenExtractor that extracts from a header.
func ExtractFromHeader(header, scheme string) TokenExtractor {
	return func(r *http.Request) string {
		auth := r.Header.Get(header)
		if auth == "" {
			return ""
		}

		if scheme != "" {
			prefix := scheme + " "
			if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
				return auth[len(prefix):]
			}
			return ""
		}

		return auth
	}
}

// ExtractFromQuery creates a TokenExtractor that extracts from a query parameter.
func ExtractFromQuery(param string) TokenExtractor {
	return func(r *http.Request) string {
		return r.URL.Query().Get(param)
	}
}

// ExtractFromCookie creates a TokenExtractor that extracts from a cookie.
func ExtractFromCookie(name string) TokenExtractor {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

// ChainExtractors chains multiple extractors, returning the first non-empty result.
func ChainExtractors(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) string {
		for _, extractor := range extractors {
			if token := extractor(r); token != "" {
				return token
			}
		}
		return ""
	}
}

// DefaultErrorHandler is the default error handler.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	code := ErrorToHTTPStatus(err)
	http.Error(w, http.StatusText(code), code)
}

// ErrorToHTTPStatus converts an error to an HTTP status code.
func ErrorToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case strings.Contains(err.Error(), "not found"):
		return http.StatusNotFound
	default:
		return http.StatusUnauthorized
	}
}

// ShouldSkip checks if the request path should skip authentication.
func ShouldSkip(r *http.Request, skipPaths []string) bool {
	path := r.URL.Path
	for _, skip := range skipPaths {
		if matchPath(skip, path) {
			return true
		}
	}
	return false
}

// matchPath checks if a path matches a pattern.
// Supports * as a wildcard for path segments.
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	// Handle wildcard patterns like /api/*
	if strings.HasSuffix(pattern, "/*") {
		prefix := pattern[:len(pattern)-2]
		return strings.HasPrefix(path, prefix)
	}

	// Handle wildcard patterns like /api/*/users
	if strings.Contains(pattern, "*") {
		patternParts := strings.Split(pattern, "/")
		pathParts := strings.Split(path, "/")

		if len(patternParts) != len(pathParts) {
			return false
		}

		for i, part := range patternParts {
			if part != "*" && part != pathParts[i] {
				return false
			}
		}
		return true
	}

	return false
}

// SetUser stores the resolved user in the request context.
func SetUser(ctx context.Context, user *store.User) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	return context.WithValue(ctx, UserIDKey, user.ID)
}

// GetUser retrieves the resolved user from the context.
func GetUser(ctx context.Context) *store.User {
	if v := ctx.Value(UserKey); v != nil {
		if u, ok := v.(*store.User); ok {
			return u
		}
	}
	return nil
}

// GetUserID retrieves user ID from the context.
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
