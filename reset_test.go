package sessionauth

import (
	"context"
	"errors"
	"testing"

	"github.com/avisek/sessionauth/internal/hash"
	"github.com/avisek/sessionauth/store"
)

func TestAuth_RequestPasswordReset(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := auth.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if len(token) != 32 {
		t.Errorf("token length = %d, want 32", len(token))
	}

	got, err := auth.store.FindUser(ctx, store.ByID(user.ID))
	if err != nil {
		t.Fatalf("FindUser() error = %v", err)
	}
	if got.ResetTokenHash == nil {
		t.Fatal("ResetTokenHash should be set")
	}
	if *got.ResetTokenHash != hash.SHA256(token) {
		t.Error("stored value should be the SHA256 of the token")
	}
	if got.ResetRequestedAt == nil {
		t.Error("ResetRequestedAt should be stamped")
	}
}

func TestAuth_RequestPasswordReset_UnknownEmail(t *testing.T) {
	auth := newTestAuth(t)

	_, err := auth.RequestPasswordReset(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("RequestPasswordReset() error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestAuth_RequestPasswordReset_Supersedes(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	first, err := auth.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	second, err := auth.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if first == second {
		t.Fatal("tokens should be unique")
	}

	// The earlier token is superseded and no longer usable
	if err := auth.ConfirmPasswordReset(ctx, first, "newpass"); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("ConfirmPasswordReset(first) error = %v, want %v", err, ErrInvalidResetToken)
	}
	if err := auth.ConfirmPasswordReset(ctx, second, "newpass"); err != nil {
		t.Errorf("ConfirmPasswordReset(second) error = %v", err)
	}
}

func TestAuth_ConfirmPasswordReset(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	token, err := auth.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}

	if err := auth.ConfirmPasswordReset(ctx, token, "correcthorse"); err != nil {
		t.Fatalf("ConfirmPasswordReset() error = %v", err)
	}

	if ok, _ := auth.Authenticate(ctx, "alice@example.com", "correcthorse"); !ok {
		t.Error("new password should be accepted")
	}
	if ok, _ := auth.Authenticate(ctx, "alice@example.com", "hunter2"); ok {
		t.Error("old password should be rejected")
	}

	// The token is cleared by a successful reset
	got, _ := auth.store.FindUser(ctx, store.ByID(user.ID))
	if got.ResetTokenHash != nil {
		t.Error("ResetTokenHash should be cleared")
	}
	if got.ResetRequestedAt != nil {
		t.Error("ResetRequestedAt should be cleared")
	}
}

func TestAuth_ConfirmPasswordReset_SingleUse(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	token, err := auth.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}

	if err := auth.ConfirmPasswordReset(ctx, token, "correcthorse"); err != nil {
		t.Fatalf("ConfirmPasswordReset() error = %v", err)
	}

	// Replaying the consumed token fails and leaves the password alone
	err = auth.ConfirmPasswordReset(ctx, token, "attacker-password")
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("ConfirmPasswordReset() error = %v, want %v", err, ErrInvalidResetToken)
	}
	if ok, _ := auth.Authenticate(ctx, "alice@example.com", "correcthorse"); !ok {
		t.Error("password should be unchanged by a replayed token")
	}
}

func TestAuth_ConfirmPasswordReset_InvalidToken(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"unknown token", "deadbeefdeadbeefdeadbeefdeadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ConfirmPasswordReset(ctx, tt.token, "newpass")
			if !errors.Is(err, ErrInvalidResetToken) {
				t.Errorf("ConfirmPasswordReset() error = %v, want %v", err, ErrInvalidResetToken)
			}
		})
	}
}

func TestAuth_ConfirmPasswordReset_EndsSession(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	session, err := auth.CreateSession(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	reset, err := auth.RequestPasswordReset(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}

	if err := auth.ConfirmPasswordReset(ctx, reset, "correcthorse"); err != nil {
		t.Fatalf("ConfirmPasswordReset() error = %v", err)
	}

	// Whoever held the old session is logged out
	if got, _ := auth.ResolveSession(ctx, session); got != nil {
		t.Error("sessions should be invalidated by a password reset")
	}
}
