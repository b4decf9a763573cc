// Package redis provides Redis storage for sessionauth.
package redis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/avisek/sessionauth/store"
)

// Key prefixes for Redis storage.
const (
	prefixUser          = "sessionauth:user:"
	prefixEmail         = "sessionauth:email:"
	prefixSession       = "sessionauth:session:"
	prefixReset         = "sessionauth:reset:"
	prefixResetExpiries = "sessionauth:reset_expiries"
)

// Store implements store.Store using Redis.
type Store struct {
	client redis.UniversalClient
}

// Config holds Redis store configuration.
type Config struct {
	// Client is an existing Redis client.
	// If provided, other options are ignored.
	Client redis.UniversalClient

	// Addr is the Redis server address (host:port).
	Addr string

	// Password is the Redis password.
	Password string

	// DB is the Redis database number.
	DB int

	// PoolSize is the maximum number of connections.
	PoolSize int
}

// New creates a new Redis store.
func New(cfg *Config) (*Store, error) {
	var client redis.UniversalClient

	if cfg.Client != nil {
		client = cfg.Client
	} else {
		opts := &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
		if cfg.PoolSize > 0 {
			opts.PoolSize = cfg.PoolSize
		}
		client = redis.NewClient(opts)
	}

	return &Store{client: client}, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Migrate is a no-op for Redis as it doesn't require schema migration.
func (s *Store) Migrate(ctx context.Context) error {
	return nil
}

// CreateUser creates a new user record with a fresh ID.
// The email index key is claimed with SETNX, which enforces uniqueness.
func (s *Store) CreateUser(ctx context.Context, email, hashedPassword string) (*store.User, error) {
	now := time.Now()
	u := &store.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	claimed, err := s.client.SetNX(ctx, prefixEmail+email, u.ID, 0).Result()
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, store.ErrDuplicateEmail
	}

	if err := s.saveUser(ctx, u); err != nil {
		// Roll back the email claim so a retry can succeed.
		s.client.Del(ctx, prefixEmail+email)
		return nil, err
	}

	return u, nil
}

// FindUser retrieves a user by a single field predicate.
func (s *Store) FindUser(ctx context.Context, q store.Query) (*store.User, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	id := q.Value()
	if q.Field() != store.FieldID {
		var indexKey string
		switch q.Field() {
		case store.FieldEmail:
			indexKey = prefixEmail + q.Value()
		case store.FieldSessionHash:
			indexKey = prefixSession + q.Value()
		case store.FieldResetTokenHash:
			indexKey = prefixReset + q.Value()
		}

		var err error
		id, err = s.client.Get(ctx, indexKey).Result()
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	return s.getUser(ctx, id)
}

// UpdateUser applies a partial update to a user record.
func (s *Store) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) error {
	if upd.IsZero() {
		return store.ErrEmptyUpdate
	}

	u, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	pipe := s.client.TxPipeline()

	if upd.HashedPassword != nil {
		u.HashedPassword = *upd.HashedPassword
	}

	if upd.SessionHash != nil {
		if u.SessionHash != nil {
			pipe.Del(ctx, prefixSession+*u.SessionHash)
		}
		if upd.SessionHash.Valid {
			h := upd.SessionHash.String
			u.SessionHash = &h
			pipe.Set(ctx, prefixSession+h, id, 0)
		} else {
			u.SessionHash = nil
		}
	}

	if upd.ResetTokenHash != nil {
		if u.ResetTokenHash != nil {
			pipe.Del(ctx, prefixReset+*u.ResetTokenHash)
		}
		if upd.ResetTokenHash.Valid {
			h := upd.ResetTokenHash.String
			u.ResetTokenHash = &h
			u.ResetRequestedAt = &now
			pipe.Set(ctx, prefixReset+h, id, 0)
			pipe.ZAdd(ctx, prefixResetExpiries, redis.Z{
				Score:  float64(now.Unix()),
				Member: id,
			})
		} else {
			u.ResetTokenHash = nil
			u.ResetRequestedAt = nil
			pipe.ZRem(ctx, prefixResetExpiries, id)
		}
	}

	u.UpdatedAt = now

	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	pipe.Set(ctx, prefixUser+id, data, 0)

	_, err = pipe.Exec(ctx)
	return err
}

// PurgeStaleResetTokens clears reset tokens requested before the cutoff.
func (s *Store) PurgeStaleResetTokens(ctx context.Context, olderThan time.Time) (int64, error) {
	ids, err := s.client.ZRangeByScore(ctx, prefixResetExpiries, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(olderThan.Unix(), 10),
	}).Result()
	if err != nil {
		return 0, err
	}

	var count int64
	for _, id := range ids {
		err := s.UpdateUser(ctx, id, store.UserUpdate{ResetTokenHash: nullString()})
		if errors.Is(err, store.ErrNotFound) {
			s.client.ZRem(ctx, prefixResetExpiries, id)
			continue
		}
		if err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// saveUser serializes and stores a user record.
func (s *Store) saveUser(ctx context.Context, u *store.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, prefixUser+u.ID, data, 0).Err()
}

// getUser loads a user record by ID.
func (s *Store) getUser(ctx context.Context, id string) (*store.User, error) {
	data, err := s.client.Get(ctx, prefixUser+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var u store.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// nullString returns an update value that clears a nullable column.
func nullString() *sql.NullString {
	return &sql.NullString{}
}

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)
