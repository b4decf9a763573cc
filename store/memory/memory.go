// Package memory provides an in-memory store implementation for testing.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avisek/sessionauth/store"
)

// Store is an in-memory implementation of the store.Store interface.
// It is intended for testing and development purposes.
type Store struct {
	mu sync.RWMutex

	users   map[string]*store.User // by ID
	byEmail map[string]string      // email -> ID
	bySess  map[string]string      // session hash -> ID
	byReset map[string]string      // reset token hash -> ID

	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		users:   make(map[string]*store.User),
		byEmail: make(map[string]string),
		bySess:  make(map[string]string),
		byReset: make(map[string]string),
	}
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ping checks if the store is available.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nil
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(ctx context.Context) error {
	return nil
}

// CreateUser creates a new user record with a fresh ID.
func (s *Store) CreateUser(ctx context.Context, email, hashedPassword string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return nil, store.ErrDuplicateEmail
	}

	now := time.Now()
	u := &store.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.users[u.ID] = u
	s.byEmail[email] = u.ID

	return copyUser(u), nil
}

// FindUser retrieves a user by a single field predicate.
func (s *Store) FindUser(ctx context.Context, q store.Query) (*store.User, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	var ok bool
	switch q.Field() {
	case store.FieldID:
		id, ok = q.Value(), true
	case store.FieldEmail:
		id, ok = s.byEmail[q.Value()]
	case store.FieldSessionHash:
		id, ok = s.bySess[q.Value()]
	case store.FieldResetTokenHash:
		id, ok = s.byReset[q.Value()]
	}
	if !ok {
		return nil, store.ErrNotFound
	}

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyUser(u), nil
}

// UpdateUser applies a partial update to a user record.
func (s *Store) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) error {
	if upd.IsZero() {
		return store.ErrEmptyUpdate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}

	now := time.Now()

	if upd.HashedPassword != nil {
		u.HashedPassword = *upd.HashedPassword
	}

	if upd.SessionHash != nil {
		if u.SessionHash != nil {
			delete(s.bySess, *u.SessionHash)
		}
		if upd.SessionHash.Valid {
			h := upd.SessionHash.String
			u.SessionHash = &h
			s.bySess[h] = id
		} else {
			u.SessionHash = nil
		}
	}

	if upd.ResetTokenHash != nil {
		if u.ResetTokenHash != nil {
			delete(s.byReset, *u.ResetTokenHash)
		}
		if upd.ResetTokenHash.Valid {
			h := upd.ResetTokenHash.String
			u.ResetTokenHash = &h
			u.ResetRequestedAt = &now
			s.byReset[h] = id
		} else {
			u.ResetTokenHash = nil
			u.ResetRequestedAt = nil
		}
	}

	u.UpdatedAt = now
	return nil
}

// PurgeStaleResetTokens clears reset tokens requested before the cutoff.
func (s *Store) PurgeStaleResetTokens(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, u := range s.users {
		if u.ResetRequestedAt == nil || !u.ResetRequestedAt.Before(olderThan) {
			continue
		}
		if u.ResetTokenHash != nil {
			delete(s.byReset, *u.ResetTokenHash)
		}
		u.ResetTokenHash = nil
		u.ResetRequestedAt = nil
		u.UpdatedAt = time.Now()
		count++
	}
	return count, nil
}

// copyUser returns a defensive copy so callers cannot mutate store state.
func copyUser(u *store.User) *store.User {
	c := *u
	if u.SessionHash != nil {
		h := *u.SessionHash
		c.SessionHash = &h
	}
	if u.ResetTokenHash != nil {
		h := *u.ResetTokenHash
		c.ResetTokenHash = &h
	}
	if u.ResetRequestedAt != nil {
		t := *u.ResetRequestedAt
		c.ResetRequestedAt = &t
	}
	return &c
}

// Verify Store implements store.Store interface
var _ store.Store = (*Store)(nil)
