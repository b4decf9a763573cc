// Package sessionauth provides session-based authentication for Go applications.
//
// It covers the full account lifecycle: registration, credential
// verification, session issuance and destruction, and single-use
// password-reset tokens. State lives in a pluggable identity store;
// passwords go through a pluggable hasher; session and reset tokens are
// opaque 128-bit random values stored only as SHA256 hashes.
//
// Basic usage:
//
//	auth, err := sessionauth.New(
//	    sessionauth.WithStore(memory.New()),
//	)
//	...
//	user, err := auth.Register(ctx, "a@example.com", "secret")
//	token, err := auth.CreateSession(ctx, "a@example.com")
package sessionauth

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/avisek/sessionauth/cleanup"
	"github.com/avisek/sessionauth/internal/crypto"
	"github.com/avisek/sessionauth/password"
	"github.com/avisek/sessionauth/store"
)

// Auth is the main entry point for sessionauth functionality.
// It is a stateless orchestrator: all account state lives in the store.
type Auth struct {
	config *Config
	store  store.Store
	hasher password.Hasher
	logger *zap.Logger
	worker *cleanup.Worker

	// decoyHash is a digest of a random throwaway password, verified
	// against when an email is unknown so that Authenticate takes the
	// same time whether or not the account exists.
	decoyHash string

	// mu protects concurrent access
	mu sync.RWMutex

	// closed indicates if the Auth instance has been closed
	closed bool
}

// New creates a new Auth instance with the given options.
// At minimum, WithStore must be provided.
func New(opts ...Option) (*Auth, error) {
	// Start with default config
	cfg := NewConfig()

	// Apply all options to config
	for _, opt := range opts {
		opt(cfg)
	}

	// Extract special options from registries
	s := getStoreFromRegistry(cfg)
	h := getHasherFromRegistry(cfg)
	l := getLoggerFromRegistry(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store is required
	if s == nil {
		return nil, ErrStoreRequired
	}

	if h == nil {
		h = password.NewBcryptHasher(nil)
	}
	if l == nil {
		l = zap.NewNop()
	}

	decoy, err := crypto.GenerateRandomString(cfg.TokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generating decoy password: %w", err)
	}
	decoyHash, err := h.Hash(decoy)
	if err != nil {
		return nil, fmt.Errorf("hashing decoy password: %w", err)
	}

	auth := &Auth{
		config:    cfg,
		store:     s,
		hasher:    h,
		logger:    l,
		decoyHash: decoyHash,
	}

	// Auto-migrate if enabled
	if cfg.AutoMigrate {
		if err := auth.store.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to migrate store: %w", err)
		}
	}

	if cfg.CleanupInterval > 0 {
		auth.worker = cleanup.NewWorker(&cleanup.Config{
			Store:         s,
			Interval:      cfg.CleanupInterval,
			ResetTokenTTL: cfg.ResetTokenTTL,
			Logger:        l,
		})
		auth.worker.Start()
	}

	return auth, nil
}

// WithStore sets the identity store.
// This is a required option.
func WithStore(s store.Store) Option {
	return func(c *Config) {
		// Store in a package-level registry keyed by config pointer
		// This is a bit hacky but necessary given the Option signature
		storeRegistry.Store(c, s)
	}
}

// storeRegistry maps Config pointers to Store instances.
// Used to pass Store through the Option pattern.
var storeRegistry = &sync.Map{}

// getStoreFromRegistry retrieves a store for a config.
func getStoreFromRegistry(c *Config) store.Store {
	if v, ok := storeRegistry.Load(c); ok {
		storeRegistry.Delete(c) // Clean up
		return v.(store.Store)
	}
	return nil
}

// Hasher-related option wrapper
var hasherRegistry = &sync.Map{}

// WithPasswordHasher sets the password hashing algorithm.
// Defaults to bcrypt with its default cost.
func WithPasswordHasher(hasher password.Hasher) Option {
	return func(c *Config) {
		hasherRegistry.Store(c, hasher)
	}
}

// getHasherFromRegistry retrieves a hasher for a config.
func getHasherFromRegistry(c *Config) password.Hasher {
	if v, ok := hasherRegistry.Load(c); ok {
		hasherRegistry.Delete(c) // Clean up
		return v.(password.Hasher)
	}
	return nil
}

// Logger-related option wrapper
var loggerRegistry = &sync.Map{}

// WithLogger sets the structured logger.
// Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		loggerRegistry.Store(c, logger)
	}
}

// getLoggerFromRegistry retrieves a logger for a config.
func getLoggerFromRegistry(c *Config) *zap.Logger {
	if v, ok := loggerRegistry.Load(c); ok {
		loggerRegistry.Delete(c) // Clean up
		return v.(*zap.Logger)
	}
	return nil
}

// Config returns the current configuration.
// The returned config should not be modified.
func (a *Auth) Config() *Config {
	return a.config
}

// Store returns the underlying store.
func (a *Auth) Store() store.Store {
	return a.store
}

// Close releases all resources and stops the cleanup worker.
// After Close is called, the Auth instance should not be used.
func (a *Auth) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	if a.worker != nil {
		a.worker.Stop()
	}

	// Close the store
	if a.store != nil {
		return a.store.Close()
	}

	return nil
}

// Ping verifies the store connection is alive.
func (a *Auth) Ping(ctx context.Context) error {
	return a.store.Ping(ctx)
}
