package sessionauth

import (
	"time"
)

// Option is a function that modifies the configuration.
type Option func(*Config)

// WithTokenBytes sets the entropy, in bytes, of generated session and
// reset tokens. The minimum is 16 bytes (128 bits).
func WithTokenBytes(n int) Option {
	return func(c *Config) {
		c.TokenBytes = n
	}
}

// WithResetTokenTTL sets how long an unconsumed reset token survives
// before the cleanup worker purges it.
func WithResetTokenTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.ResetTokenTTL = ttl
	}
}

// WithCleanupInterval sets how often stale reset tokens are purged.
// Set to 0 to disable the background cleanup worker.
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.CleanupInterval = interval
	}
}

// WithAutoMigrate enables or disables automatic store migration.
func WithAutoMigrate(enabled bool) Option {
	return func(c *Config) {
		c.AutoMigrate = enabled
	}
}
