package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rapamazonia/assetregistry/internal/auth"
	"github.com/rapamazonia/assetregistry/internal/models"
)

func TestLogin(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	control := ensureCommittee(t, store, "Control interno")

	users := NewUserService(store, testLogger())
	operator, err := users.Create(ctx, &CreateUserRequest{
		Name: "Op", Username: "op", Password: "secret-pass", Role: "OPERATOR", CommitteeID: &control,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, testLogger())

	t.Run("valid credentials return a session token", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Username: "op", Password: "secret-pass"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.User.ID != operator.ID {
			t.Errorf("expected user %d, got %d", operator.ID, resp.User.ID)
		}

		claims, err := jwtManager.Validate(resp.Token)
		if err != nil {
			t.Fatalf("token does not validate: %v", err)
		}
		if claims.UserID != operator.ID || claims.Role != models.RoleOperator {
			t.Errorf("unexpected claims %+v", claims)
		}
		if claims.CommitteeID == nil || *claims.CommitteeID != control {
			t.Errorf("committee assignment missing from claims: %v", claims.CommitteeID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Username: "op", Password: "wrong-pass"})
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Username: "ghost", Password: "secret-pass"})
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("empty fields", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{})
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		if err := users.SetActive(ctx, operator.ID, false); err != nil {
			t.Fatalf("SetActive failed: %v", err)
		}
		_, err := svc.Login(ctx, &LoginRequest{Username: "op", Password: "secret-pass"})
		if !errors.Is(err, auth.ErrInactiveAccount) {
			t.Errorf("expected ErrInactiveAccount, got %v", err)
		}
	})
}
