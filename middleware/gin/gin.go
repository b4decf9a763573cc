// Package gin provides Gin middleware for sessionauth authentication.
package gin

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avisek/sessionauth/middleware"
	"github.com/avisek/sessionauth/store"
)

// Gin context keys for the resolved user.
const (
	UserKey   = "sessionauth_user"
	UserIDKey = "sessionauth_user_id"
)

// Config holds Gin-specific middleware configuration.
type Config struct {
	// TokenExtractor extracts the session token from the Gin context.
	// Defaults to the session_id cookie, falling back to a Bearer header.
	TokenExtractor TokenExtractor

	// ErrorHandler handles authentication errors.
	// Defaults to returning 401 Unauthorized.
	ErrorHandler ErrorHandler

	// SkipPaths are paths that skip authentication.
	SkipPaths []string
}

// TokenExtractor extracts a session token from a Gin context.
type TokenExtractor func(c *gin.Context) string

// ErrorHandler handles authentication errors in Gin.
type ErrorHandler func(c *gin.Context, err error)

// SessionResolver resolves an opaque session token to a user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*store.User, error)
}

// DefaultConfig returns a default Gin middleware configuration.
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
	return func(c *gin.Context) string {
		auth := c.GetHeader(header)
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
	return func(c *gin.Context) string {
		return c.Query(param)
	}
}

// ExtractFromCookie creates a token extractor that extracts from a cookie.
func ExtractFromCookie(name string) TokenExtractor {
	return func(c *gin.Context) string {
		cookie, err := c.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie
	}
}

// ChainExtractors chains multiple extractors, returning the first non-empty result.
func ChainExtractors(extractors ...TokenExtractor) TokenExtractor {
	return func(c *gin.Context) string {
		for _, extractor := range extractors {
			if token := extractor(c); token != "" {
				return token
			}
		}
		return ""
	}
}

// DefaultErrorHandler is the default error handler for Gin.
func DefaultErrorHandler(c *gin.Context, err error) {
	code := middleware.ErrorToHTTPStatus(err)
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

// Authenticate creates a Gin middleware that resolves session tokens.
func Authenticate(resolver SessionResolver, cfg *Config) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(c *gin.Context) {
		// Check if path should be skipped
		if shouldSkip(c, cfg.SkipPaths) {
			c.Next()
			return
		}

		// Extract token
		token := cfg.TokenExtractor(c)
		if token == "" {
			cfg.ErrorHandler(c, middleware.ErrMissingSession)
			return
		}

		// Resolve session
		user, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			cfg.ErrorHandler(c, err)
			return
		}
		if user == nil {
			cfg.ErrorHandler(c, middleware.ErrInvalidSession)
			return
		}

		// Store user in context
		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)

		c.Next()
	}
}

// OptionalAuthenticate creates a Gin middleware that resolves session
// tokens if present, but allows unauthenticated requests to proceed.
func OptionalAuthenticate(resolver SessionResolver, cfg *Config) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return func(c *gin.Context) {
		token := cfg.TokenExtractor(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil || user == nil {
			c.Next()
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)

		c.Next()
	}
}

// User retrieves the resolved user from Gin context.
func User(c *gin.Context) *store.User {
	if v, exists := c.Get(UserKey); exists {
		if u, ok := v.(*store.User); ok {
			return u
		}
	}
	return nil
}

// UserID retrieves user ID from Gin context.
func UserID(c *gin.Context) string {
	if v, exists := c.Get(UserIDKey); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// shouldSkip checks if the Gin request path should skip authentication.
func shouldSkip(c *gin.Context, skipPaths []string) bool {
	path := c.Request.URL.Path
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
