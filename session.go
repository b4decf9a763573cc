package sessionauth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/avisek/sessionauth/internal/crypto"
	"github.com/avisek/sessionauth/internal/hash"
	"github.com/avisek/sessionauth/store"
)

// CreateSession issues a fresh opaque session token for the account
// with the given email and returns it. Any prior session is implicitly
// invalidated: an account holds at most one active session.
// Returns ErrUserNotFound if the email is not registered.
func (a *Auth) CreateSession(ctx context.Context, email string) (string, error) {
	user, err := a.store.FindUser(ctx, store.ByEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	token, err := crypto.GenerateToken(a.config.TokenBytes)
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	if err := a.store.UpdateUser(ctx, user.ID, store.SetSession(hash.SHA256(token))); err != nil {
		return "", err
	}

	a.logger.Info("session created", zap.String("user_id", user.ID))
	return token, nil
}

// ResolveSession returns the account holding the given session token,
// or (nil, nil) if the token is empty, unknown, or stale. Pure read.
func (a *Auth) ResolveSession(ctx context.Context, token string) (*store.User, error) {
	if token == "" {
		return nil, nil
	}

	user, err := a.store.FindUser(ctx, store.BySessionHash(hash.SHA256(token)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// DestroySession clears the session for the user with the given ID.
// An unknown ID is a no-op; the caller is expected to have resolved the
// user first.
func (a *Auth) DestroySession(ctx context.Context, userID string) error {
	err := a.store.UpdateUser(ctx, userID, store.ClearSession())
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	a.logger.Info("session destroyed", zap.String("user_id", userID))
	return nil
}
