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

// RequestPasswordReset issues a fresh single-use reset token for the
// account with the given email and returns it. A prior unconsumed
// token is superseded. Returns ErrUserNotFound if the email is not
// registered; adapters must not relay that distinction to clients.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := a.store.FindUser(ctx, store.ByEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	token, err := crypto.GenerateToken(a.config.TokenBytes)
	if err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}

	if err := a.store.UpdateUser(ctx, user.ID, store.SetResetToken(hash.SHA256(token))); err != nil {
		return "", err
	}

	a.logger.Info("password reset requested", zap.String("user_id", user.ID))
	return token, nil
}

// ConfirmPasswordReset consumes a reset token: the new password is
// hashed and stored, the token is cleared, and any active session is
// ended, all in a single store update. Returns ErrInvalidResetToken if
// no account holds the token, which also covers reuse of a consumed
// token.
func (a *Auth) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	user, err := a.store.FindUser(ctx, store.ByResetTokenHash(hash.SHA256(token)))
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	hashed, err := a.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := a.store.UpdateUser(ctx, user.ID, store.ReplacePassword(hashed)); err != nil {
		return err
	}

	a.logger.Info("password reset confirmed", zap.String("user_id", user.ID))
	return nil
}
