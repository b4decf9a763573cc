package store

import (
	"database/sql"
	"time"
)

// User represents an identity record.
//
// Session and reset tokens are never stored raw: the auth core writes the
// SHA256 hash of each token, and lookups go through the same hash. The raw
// token exists only in the client's hands.
type User struct {
	// ID is the unique identifier, assigned by the store at creation.
	ID string `db:"id" json:"id"`

	// Email is unique across all users and immutable once set.
	Email string `db:"email" json:"email"`

	// HashedPassword is the opaque digest produced by the credential
	// hasher. Never log or transport this value.
	HashedPassword string `db:"hashed_password" json:"hashed_password"`

	// SessionHash is the SHA256 hash of the active session token
	// (nil if the user is logged out). Unique across all users.
	SessionHash *string `db:"session_hash" json:"session_hash,omitempty"`

	// ResetTokenHash is the SHA256 hash of the pending password-reset
	// token (nil if no reset is pending). Unique across all users.
	ResetTokenHash *string `db:"reset_token_hash" json:"reset_token_hash,omitempty"`

	// ResetRequestedAt is when the pending reset token was issued.
	// Stamped by the store whenever ResetTokenHash is set.
	ResetRequestedAt *time.Time `db:"reset_requested_at" json:"reset_requested_at,omitempty"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasSession returns true if the user has an active session.
func (u *User) HasSession() bool {
	return u.SessionHash != nil
}

// ResetPending returns true if a password reset has been requested and
// not yet consumed.
func (u *User) ResetPending() bool {
	return u.ResetTokenHash != nil
}

// Field identifies a queryable user column.
type Field string

// Queryable fields. FindUser accepts exactly these; anything else is
// ErrInvalidQuery.
const (
	FieldID             Field = "id"
	FieldEmail          Field = "email"
	FieldSessionHash    Field = "session_hash"
	FieldResetTokenHash Field = "reset_token_hash"
)

// Query selects exactly one user field to match against. Build queries
// with the By* constructors; the zero Query is invalid.
type Query struct {
	field Field
	value string
}

// ByID matches on the user ID.
func ByID(id string) Query {
	return Query{field: FieldID, value: id}
}

// ByEmail matches on the email address.
func ByEmail(email string) Query {
	return Query{field: FieldEmail, value: email}
}

// BySessionHash matches on the hashed session token.
func BySessionHash(hash string) Query {
	return Query{field: FieldSessionHash, value: hash}
}

// ByResetTokenHash matches on the hashed reset token.
func ByResetTokenHash(hash string) Query {
	return Query{field: FieldResetTokenHash, value: hash}
}

// Field returns the column the query matches against.
func (q Query) Field() Field {
	return q.field
}

// Value returns the value the query matches.
func (q Query) Value() string {
	return q.value
}

// Validate checks that the query targets a supported field with a
// non-empty value.
func (q Query) Validate() error {
	switch q.field {
	case FieldID, FieldEmail, FieldSessionHash, FieldResetTokenHash:
	default:
		return ErrInvalidQuery
	}
	if q.value == "" {
		return ErrInvalidQuery
	}
	return nil
}

// UserUpdate describes a partial update. Nil fields are left untouched.
// For the nullable token hashes, a pointer to an invalid sql.NullString
// clears the column.
type UserUpdate struct {
	// HashedPassword replaces the stored credential digest.
	HashedPassword *string

	// SessionHash sets (Valid) or clears (not Valid) the session hash.
	SessionHash *sql.NullString

	// ResetTokenHash sets (Valid) or clears (not Valid) the reset token
	// hash. Setting it also stamps ResetRequestedAt; clearing it clears
	// the timestamp.
	ResetTokenHash *sql.NullString
}

// IsZero returns true if the update carries no fields.
func (u UserUpdate) IsZero() bool {
	return u.HashedPassword == nil && u.SessionHash == nil && u.ResetTokenHash == nil
}

// SetSession returns an update that stores a new session hash.
func SetSession(hash string) UserUpdate {
	return UserUpdate{SessionHash: &sql.NullString{String: hash, Valid: true}}
}

// ClearSession returns an update that logs the user out.
func ClearSession() UserUpdate {
	return UserUpdate{SessionHash: &sql.NullString{}}
}

// SetResetToken returns an update that stores a new reset token hash.
func SetResetToken(hash string) UserUpdate {
	return UserUpdate{ResetTokenHash: &sql.NullString{String: hash, Valid: true}}
}

// ReplacePassword returns an update that swaps the credential digest,
// consumes the pending reset token, and ends any active session.
func ReplacePassword(hashedPassword string) UserUpdate {
	return UserUpdate{
		HashedPassword: &hashedPassword,
		SessionHash:    &sql.NullString{},
		ResetTokenHash: &sql.NullString{},
	}
}
