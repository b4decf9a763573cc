// Package fiber provides Fiber middleware for sessionauth authentication.
package fiber

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/avisek/sessionauth/middleware"
	"github.com/avisek/sessionauth/store"
)

// Fiber Locals keys for the resolved user.
const (
	UserKey   = "sessionauth_user"
	UserIDKey = "sessionauth_user_id"
)

// Config holds Fiber-specific middleware configuration.
type Config struct {
	// TokenExtractor extracts the session token from the Fiber context.
	// Defaults to the session_id cookie, falling back to a Bearer header.
	TokenExtractor TokenExtractor

	// ErrorHandler handles authentication errors.
	// Defaults to returning 401 Unauthorized.
	ErrorHandler ErrorHandler

	// SkipPaths are paths that skip authentication.
	SkipPaths []string
}

// TokenExtractor extracts a session token from a Fiber context.
type TokenExtractor func(c *fiber.Ctx) string

// ErrorHandler handles authentication errors in Fiber.
type ErrorHandler func(c *fiber.Ctx, err error) error

// SessionResolver resolves an opaque session token to a user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*store.User, error)
}

// DefaultConfig returns a default Fiber middleware configuration.
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
	return func(c *fiber.Ctx) string {
		auth := c.Get(header)
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
	return func(c *fiber.Ctx) string {
		return c.Query(param)
	}
}

// ExtractFromCookie creates a token extractor that extracts from a cookie.
func ExtractFromCookie(name string) TokenExtractor {
	return func(c *fiber.Ctx) string {
		return c.Cookies(name)
	}
}

// ChainExtractors chains multiple extractors, returning the first non-empty result.
func ChainExtractors(extractors ...TokenExtractor) TokenExtractor {
	return func(c *fiber.Ctx) string {
		for _, extractor := range extractors {
			if token := extractor(c); token != "" {
				return token
			}
		}
		return ""
	}
}

// DefaultErrorHandler is the default error handler for Fiber.
func DefaultErrorHandler(c *fiber.Ctx, err error) error {
	code := middleware.ErrorToHTTPStatus(err)
	return c.Status(code).SendString(err.Error())
}

// Authenticate creates a Fiber middleware that resolves session tokens.
func Authenticate(resolver SessionResolver, cfg *Config) fiber.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(c *fiber.Ctx) error {
		// Check if path should be skipped
		if shouldSkip(c, cfg.SkipPaths) {
			return c.Next()
		}

		// Extract token
		token := cfg.TokenExtractor(c)
		if token == "" {
			return cfg.ErrorHandler(c, middleware.ErrMissingSession)
		}

		// Resolve session
		user, err := resolver.ResolveSession(c.UserContext(), token)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}
		if user == nil {
			return cfg.ErrorHandler(c, middleware.ErrInvalidSession)
		}

		// Store user in Locals
		c.Locals(UserKey, user)
		c.Locals(UserIDKey, user.ID)

		return c.Next()
	}
}

// OptionalAuthenticate creates a Fiber middleware that resolves session
// tokens if present, but allows unauthenticated requests to proceed.
func OptionalAuthenticate(resolver SessionResolver, cfg *Config) fiber.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(c *fiber.Ctx) error {
		token := cfg.TokenExtractor(c)
		if token == "" {
			return c.Next()
		}

		user, err := resolver.ResolveSession(c.UserContext(), token)
		if err != nil || user == nil {
			return c.Next()
		}

		c.Locals(UserKey, user)
		c.Locals(UserIDKey, user.ID)

		return c.Next()
	}
}

// User retrieves the resolved user from Fiber Locals.
func User(c *fiber.Ctx) *store.User {
	if v := c.Locals(UserKey); v != nil {
		if u, ok := v.(*store.User); ok {
			return u
		}
	}
	return nil
}

// UserID retrieves user ID from Fiber Locals.
func UserID(c *fiber.Ctx) string {
	if v := c.Locals(UserIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// shouldSkip checks if the Fiber request path should skip authentication.
func shouldSkip(c *fiber.Ctx, skipPaths []string) bool {
	path := c.Path()
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
