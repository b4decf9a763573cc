// Package store defines the identity storage interface for sessionauth.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound is returned when no user matches a query.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when creating a user with an email
	// that already exists.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInvalidQuery is returned when a query has no predicate or an
	// unsupported field. This indicates a programmer error.
	ErrInvalidQuery = errors.New("invalid user query")

	// ErrEmptyUpdate is returned when an update carries no fields.
	// This indicates a programmer error.
	ErrEmptyUpdate = errors.New("empty user update")
)

// Store defines the interface for identity persistence.
// All methods must be safe for concurrent use, and every call must be a
// single atomic unit: callers never observe partial writes.
type Store interface {
	// Lifecycle methods

	// Close releases any resources held by the store.
	Close() error

	// Ping verifies the store connection is alive.
	Ping(ctx context.Context) error

	// Migrate creates or updates the backing schema.
	Migrate(ctx context.Context) error

	// User methods

	// CreateUser persists a new user record and assigns its ID.
	// Returns ErrDuplicateEmail if the email is already taken.
	CreateUser(ctx context.Context, email, hashedPassword string) (*User, error)

	// FindUser retrieves the user matching the query predicate.
	// Returns ErrNotFound if no user matches and ErrInvalidQuery if the
	// query is zero-valued or targets an unsupported field.
	FindUser(ctx context.Context, q Query) (*User, error)

	// UpdateUser applies a partial update to the user with the given ID,
	// leaving unset fields untouched. Returns ErrNotFound if the ID does
	// not exist and ErrEmptyUpdate if the update carries no fields.
	UpdateUser(ctx context.Context, id string, upd UserUpdate) error

	// PurgeStaleResetTokens clears reset tokens that were requested
	// before the cutoff. Returns the number of users affected.
	PurgeStaleResetTokens(ctx context.Context, olderThan time.Time) (int64, error)
}
