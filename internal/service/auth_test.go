package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/apiseclab/backend/internal/apperr"
	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/models"
	"github.com/apiseclab/backend/internal/storage/memory"
)

func newAuthFixture(t *testing.T) (*AuthService, *auth.TokenManager) {
	t.Helper()
	store := memory.NewStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := store.CreateUser(context.Background(), models.AppUser{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	tokens := auth.NewTokenManager("test-secret", "api-sec-lab", time.Hour)
	svc, err := NewAuthService(store, tokens)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc, tokens
}

func TestLoginIssuesMinimalToken(t *testing.T) {
	svc, tokens := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), "alice", "correct-horse1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Subject != "alice" || claims.Role != models.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}
}

// TestLoginFailuresAreIndistinguishable asserts an unknown username and a
// wrong password produce the identical error value, so the response body
// and status cannot differ between the two causes.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, unknownUser := svc.Login(ctx, "nobody", "whatever123")
	_, wrongPassword := svc.Login(ctx, "alice", "wrong-password")

	if !errors.Is(unknownUser, apperr.ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", unknownUser)
	}
	if !errors.Is(wrongPassword, apperr.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongPassword)
	}
	if unknownUser.Error() != wrongPassword.Error() {
		t.Fatalf("error messages differ: %q vs %q", unknownUser, wrongPassword)
	}
}
