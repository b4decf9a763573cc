// Package cleanup provides a background worker for purging stale data.
package cleanup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avisek/sessionauth/store"
)

// Default worker settings.
const (
	DefaultInterval      = time.Hour
	DefaultResetTokenTTL = 24 * time.Hour

	// runTimeout bounds a single purge pass.
	runTimeout = 5 * time.Minute
)

// Worker periodically purges reset tokens that were requested longer
// ago than the configured TTL and never consumed.
type Worker struct {
	store    store.Store
	interval time.Duration
	ttl      time.Duration
	logger   *zap.Logger
	done     chan struct{}
	wg       sync.WaitGroup

	// Stats
	mu           sync.RWMutex
	lastRun      time.Time
	tokensPurged int64
	errors       int64
}

// Config holds cleanup worker configuration.
type Config struct {
	// Store is the identity store to purge.
	Store store.Store

	// Interval is how often to run. Defaults to 1 hour.
	Interval time.Duration

	// ResetTokenTTL is how long an unconsumed reset token survives.
	// Defaults to 24 hours.
	ResetTokenTTL time.Duration

	// Logger for purge events. Defaults to a no-op logger.
	Logger *zap.Logger
}

// NewWorker creates a new cleanup worker.
func NewWorker(cfg *Config) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = DefaultResetTokenTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Worker{
		store:    cfg.Store,
		interval: cfg.Interval,
		ttl:      cfg.ResetTokenTTL,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup worker.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop gracefully stops the cleanup worker.
func (w *Worker) Stop() {
	close(w.done)
	w.wg.Wait()
}

// run is the main loop for the cleanup worker.
func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.RunNow()
		}
	}
}

// RunNow triggers an immediate purge pass.
func (w *Worker) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	w.mu.Lock()
	w.lastRun = time.Now()
	w.mu.Unlock()

	count, err := w.store.PurgeStaleResetTokens(ctx, time.Now().Add(-w.ttl))

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.errors++
		w.logger.Error("purging stale reset tokens", zap.Error(err))
		return
	}
	if count > 0 {
		w.tokensPurged += count
		w.logger.Info("purged stale reset tokens", zap.Int64("count", count))
	}
}

// Stats holds cleanup statistics.
type Stats struct {
	LastRun      time.Time
	TokensPurged int64
	Errors       int64
}

// Stats returns the current cleanup statistics.
func (w *Worker) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return Stats{
		LastRun:      w.lastRun,
		TokensPurged: w.tokensPurged,
		Errors:       w.errors,
	}
}
