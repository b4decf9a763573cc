package sessionauth

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	// DefaultTokenBytes is the entropy of session and reset tokens.
	DefaultTokenBytes = 16

	// DefaultResetTokenTTL is how long a reset token stays usable
	// before the cleanup worker purges it.
	DefaultResetTokenTTL = 24 * time.Hour

	// DefaultCleanupInterval is how often stale reset tokens are purged.
	DefaultCleanupInterval = 1 * time.Hour

	// MinTokenBytes is the minimum token entropy. 16 bytes is 128 bits,
	// the floor for negligible collision probability.
	MinTokenBytes = 16
)

// Config holds all configuration for the Auth instance.
type Config struct {
	// TokenBytes is the entropy, in bytes, of generated session and
	// reset tokens.
	TokenBytes int

	// ResetTokenTTL is how long an unconsumed reset token survives
	// before the cleanup worker purges it.
	ResetTokenTTL time.Duration

	// CleanupInterval is how often stale reset tokens are purged.
	// Set to 0 to disable the background cleanup worker.
	CleanupInterval time.Duration

	// AutoMigrate enables automatic store migration on startup.
	AutoMigrate bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		TokenBytes:      DefaultTokenBytes,
		ResetTokenTTL:   DefaultResetTokenTTL,
		CleanupInterval: DefaultCleanupInterval,
		AutoMigrate:     false,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TokenBytes < MinTokenBytes {
		return fmt.Errorf("%w: token entropy must be at least %d bytes", ErrConfigInvalid, MinTokenBytes)
	}
	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("%w: reset token TTL must be positive", ErrConfigInvalid)
	}
	if c.CleanupInterval < 0 {
		return fmt.Errorf("%w: cleanup interval cannot be negative", ErrConfigInvalid)
	}
	return nil
}
