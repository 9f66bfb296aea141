package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

func TestRegisterAndAuthenticateUser(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()
	clock := newTestClock()

	u, err := service.RegisterUser(ctx, db, clock, service.RegisterUserInput{Username: " alice ", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register user: %v", err)
	}
	if _, err := uuid.Parse(u.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", u.ID)
	}
	if u.Username != "alice" || u.PasswordHash == "secret1" {
		t.Fatalf("unexpected registered user: %+v", u)
	}

	got, err := service.AuthenticateUser(ctx, db, "alice", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID || !got.CreatedAt.Equal(clock.Now()) {
		t.Fatalf("unexpected authenticated user: %+v", got)
	}

	if _, err := service.AuthenticateUser(ctx, db, "alice", "wrong-pass"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := service.AuthenticateUser(ctx, db, "nobody", "secret1"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	if _, err := service.RegisterUser(ctx, db, clock, service.RegisterUserInput{Username: "alice", Email: "a2@example.com", Password: "secret2"}); !errors.Is(err, service.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := service.RegisterUser(ctx, db, clock, service.RegisterUserInput{Username: "bob", Email: "bob@example.com", Password: "123"}); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}
	if _, err := service.RegisterUser(ctx, db, clock, service.RegisterUserInput{Username: "bob", Password: "secret1"}); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing email, got %v", err)
	}
}
