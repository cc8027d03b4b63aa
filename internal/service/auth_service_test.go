package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peggytheclaw/tripledger/internal/auth"
)

func newAuthService(env *testEnv) *AuthService {
	jwtManager := auth.NewJWTManager("test-secret-key", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(env.store)
	return NewAuthService(authenticator, jwtManager, env.store)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice@example.com", "Alice", "long-enough-password")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Errorf("expected user ID and token, got %q / %q", user.ID, token)
	}
	if user.PasswordHash == "long-enough-password" {
		t.Error("password stored in plain text")
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		if _, _, err := svc.Register(ctx, "alice@example.com", "Impostor", "another-password"); !errors.Is(err, auth.ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		if _, _, err := svc.Register(ctx, "bob@example.com", "Bob", "short"); !errors.Is(err, auth.ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("login with correct password", func(t *testing.T) {
		loggedIn, token, err := svc.Login(ctx, "alice@example.com", "long-enough-password")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if loggedIn.ID != user.ID || token == "" {
			t.Errorf("unexpected login result: %+v", loggedIn)
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("login with unknown email", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever-password"); !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("current user", func(t *testing.T) {
		current, err := svc.CurrentUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("CurrentUser failed: %v", err)
		}
		if current.Email != "alice@example.com" {
			t.Errorf("Email = %s, want alice@example.com", current.Email)
		}

		if _, err := svc.CurrentUser(ctx, "missing-id"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
