// Package password provides password hashing and verification.
package password

// Hasher defines the interface for password hashing algorithms.
//
// Hash must draw a fresh random salt on every call, so hashing the same
// password twice yields different digests. Digests are opaque and must
// never be compared by equality.
type Hasher interface {
	// Hash creates a salted, one-way digest from a password.
	Hash(password string) (string, error)

	// Verify checks if a password matches a digest. A malformed digest
	// yields (false, nil), never an error, so callers cannot leak
	// failure detail.
	Verify(password, hash string) (bool, error)

	// NeedsRehash checks if a digest needs to be regenerated.
	// Returns true if it was created with different parameters.
	NeedsRehash(hash string) bool
}
