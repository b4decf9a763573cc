package sessionauth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/avisek/sessionauth/store"
)

// Register creates a new account for the given email.
// Returns ErrEmailTaken if the email is already registered. The store's
// uniqueness constraint is authoritative, so there is no window between
// lookup and insert for two registrations to race through.
func (a *Auth) Register(ctx context.Context, email, pw string) (*store.User, error) {
	hashed, err := a.hasher.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := a.store.CreateUser(ctx, email, hashed)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	a.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Authenticate reports whether the email/password pair names a valid
// account. Unknown email and wrong password both yield (false, nil):
// the caller learns nothing about which accounts exist.
func (a *Auth) Authenticate(ctx context.Context, email, pw string) (bool, error) {
	user, err := a.store.FindUser(ctx, store.ByEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		// Verify against the decoy digest so the unknown-email path
		// costs the same as a failed password check.
		_, _ = a.hasher.Verify(pw, a.decoyHash)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	ok, err := a.hasher.Verify(pw, user.HashedPassword)
	if err != nil {
		return false, err
	}
	return ok, nil
}
