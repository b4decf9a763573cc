package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/avisek/sessionauth/store"
)

// purgeStore stubs out the store interface, recording purge calls.
type purgeStore struct {
	mu      sync.Mutex
	count   int64
	err     error
	calls   int
	cutoffs []time.Time
}

func (s *purgeStore) Close() error                      { return nil }
func (s *purgeStore) Ping(ctx context.Context) error    { return nil }
func (s *purgeStore) Migrate(ctx context.Context) error { return nil }

func (s *purgeStore) CreateUser(ctx context.Context, email, hashedPassword string) (*store.User, error) {
	return nil, errors.New("not implemented")
}

func (s *purgeStore) FindUser(ctx context.Context, q store.Query) (*store.User, error) {
	return nil, store.ErrNotFound
}

func (s *purgeStore) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) error {
	return store.ErrNotFound
}

func (s *purgeStore) PurgeStaleResetTokens(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.cutoffs = append(s.cutoffs, olderThan)
	return s.count, s.err
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(&Config{Store: &purgeStore{}})

	if w.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", w.interval, DefaultInterval)
	}
	if w.ttl != DefaultResetTokenTTL {
		t.Errorf("ttl = %v, want %v", w.ttl, DefaultResetTokenTTL)
	}
	if w.logger == nil {
		t.Error("logger should default to a no-op logger")
	}
}

func TestWorker_RunNow(t *testing.T) {
	ps := &purgeStore{count: 3}
	w := NewWorker(&Config{Store: ps, ResetTokenTTL: 24 * time.Hour})

	before := time.Now()
	w.RunNow()

	stats := w.Stats()
	if stats.TokensPurged != 3 {
		t.Errorf("TokensPurged = %d, want 3", stats.TokensPurged)
	}
	if stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", stats.Errors)
	}
	if stats.LastRun.Before(before) {
		t.Error("LastRun should be updated")
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.calls != 1 {
		t.Fatalf("purge calls = %d, want 1", ps.calls)
	}

	// The cutoff should be roughly now minus the TTL
	wantCutoff := before.Add(-24 * time.Hour)
	if diff := ps.cutoffs[0].Sub(wantCutoff); diff < 0 || diff > time.Minute {
		t.Errorf("cutoff = %v, want ~%v", ps.cutoffs[0], wantCutoff)
	}
}

func TestWorker_RunNow_Accumulates(t *testing.T) {
	ps := &purgeStore{count: 2}
	w := NewWorker(&Config{Store: ps})

	w.RunNow()
	w.RunNow()

	if got := w.Stats().TokensPurged; got != 4 {
		t.Errorf("TokensPurged = %d, want 4", got)
	}
}

func TestWorker_RunNow_Error(t *testing.T) {
	ps := &purgeStore{err: errors.New("connection refused")}
	w := NewWorker(&Config{Store: ps})

	w.RunNow()

	stats := w.Stats()
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if stats.TokensPurged != 0 {
		t.Errorf("TokensPurged = %d, want 0", stats.TokensPurged)
	}
}

func TestWorker_StartStop(t *testing.T) {
	ps := &purgeStore{}
	w := NewWorker(&Config{Store: ps, Interval: 10 * time.Millisecond})

	w.Start()
	time.Sleep(50 * time.Millisecond)
	w.Stop()

	ps.mu.Lock()
	calls := ps.calls
	ps.mu.Unlock()
	if calls == 0 {
		t.Error("worker should have run at least once")
	}

	// No further runs after Stop
	time.Sleep(30 * time.Millisecond)
	ps.mu.Lock()
	after := ps.calls
	ps.mu.Unlock()
	if after != calls {
		t.Errorf("worker ran after Stop: %d -> %d calls", calls, after)
	}
}
