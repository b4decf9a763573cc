// Package echo provides Echo middleware for sessionauth authentication.
package echo

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avisek/sessionauth/middleware"
	"github.com/avisek/sessionauth/store"
)

// Echo context keys for the resolved user.
const (
	UserKey   = "sessionauth_user"
	UserIDKey = "sessionauth_user_id"
)

// Config holds Echo-specific middleware configuration.
type Config struct {
	// TokenExtractor extracts the session token from the Echo context.
	// Defaults to the session_id cookie, falling back to a Bearer header.
	TokenExtractor TokenExtractor

	// ErrorHandler handles authentication errors.
	// Defaults to returning 401 Unauthorized.
	ErrorHandler ErrorHandler

	// SkipPaths are paths that skip authentication.
	SkipPaths []string
}

// TokenExtractor extracts a session token from an Echo context.
type TokenExtractor func(c echo.Context) string

// ErrorHandler handles authentication errors in Echo.
type ErrorHandler func(c echo.Context, err error) error

// SessionResolver resolves an opaque session token to a user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*store.User, error)
}

// DefaultConfig returns a default Echo middleware configuration.
func DefaultConfig() *Config {
	return &Config{
		TokenExtractor: ChainExtractors(
			ExtractFromCookie(middleware.DefaultCookieName),
			ExtractFromHeader("Authorization", "Bearer"),
		),
		ErrorHandler: DefaultErrorHandler,
	}
}

// ExtractFromHeader creates a token extractor that extracts from a header.
func ExtractFromHeader(header, scheme string) TokenExtractor {
	return func(c echo.Context) string {
		auth := c.Request().Header.Get(header)
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

// ExtractFromQuery creates a token extractor that extracts from a query parameter.
func ExtractFromQuery(param string) TokenExtractor {
	return func(c echo.Context) string {
		return c.QueryParam(param)
	}
}

// ExtractFromCookie creates a token extractor that extracts from a cookie.
func ExtractFromCookie(name string) TokenExtractor {
	return func(c echo.Context) string {
		cookie, err := c.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

// ChainExtractors chains multiple extractors, returning the first non-empty result.
func ChainExtractors(extractors ...TokenExtractor) TokenExtractor {
	return func(c echo.Context) string {
		for _, extractor := range extractors {
			if token := extractor(c); token != "" {
				return token
			}
		}
		return ""
	}
}

// DefaultErrorHandler is the default error handler for Echo.
func DefaultErrorHandler(c echo.Context, err error) error {
	code := middleware.ErrorToHTTPStatus(err)
	return c.String(code, err.Error())
}

// Authenticate creates an Echo middleware that resolves session tokens.
func Authenticate(resolver SessionResolver, cfg *Config) echo.MiddlewareFunc {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Check if path should be skipped
			if shouldSkip(c, cfg.SkipPaths) {
				return next(c)
			}

			// Extract token
			token := cfg.TokenExtractor(c)
			if token == "" {
				return cfg.ErrorHandler(c, middleware.ErrMissingSession)
			}

			// Resolve session
			user, err := resolver.ResolveSession(c.Request().Context(), token)
			if err != nil {
				return cfg.ErrorHandler(c, err)
			}
			if user == nil {
				return cfg.ErrorHandler(c, middleware.ErrInvalidSession)
			}

			// Store user in context
			c.Set(UserKey, user)
			c.Set(UserIDKey, user.ID)

			return next(c)
		}
	}
}

// OptionalAuthenticate creates an Echo middleware that resolves session
// tokens if present, but allows unauthenticated requests to proceed.
func OptionalAuthenticate(resolver SessionResolver, cfg *Config) echo.MiddlewareFunc {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := cfg.TokenExtractor(c)
			if token == "" {
				return next(c)
			}

			user, err := resolver.ResolveSession(c.Request().Context(), token)
			if err != nil || user == nil {
				return next(c)
			}

			c.Set(UserKey, user)
			c.Set(UserIDKey, user.ID)

			return next(c)
		}
	}
}

// User retrieves the resolved user from Echo context.
func User(c echo.Context) *store.User {
	if v := c.Get(UserKey); v != nil {
		if u, ok := v.(*store.User); ok {
			return u
		}
	}
	return nil
}

// UserID retrieves user ID from Echo context.
func UserID(c echo.Context) string {
	if v := c.Get(UserIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// shouldSkip checks if the Echo request path should skip authentication.
func shouldSkip(c echo.Context, skipPaths []string) bool {
	path := c.Request().URL.Path
	for _, skip := range skipPaths {
		if matchPath(skip, path) {
			return true
		}
	}
	return false
}

// matchPath checks if a path matches a pattern.
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := pattern[:len(pattern)-2]
		return strings.HasPrefix(path, prefix)
	}
	return false
}
