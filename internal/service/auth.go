package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/apiseclab/backend/internal/apperr"
	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/models/dto"
	"github.com/apiseclab/backend/internal/storage"
)

// AuthService validates credentials and issues tokens.
type AuthService struct {
	users  storage.UserStore
	tokens *auth.TokenManager

	// dummyHash is compared against when the username does not exist, so a
	// failed lookup costs the same bcrypt work as a wrong password.
	dummyHash []byte
}

// NewAuthService constructs the service.
func NewAuthService(users storage.UserStore, tokens *auth.TokenManager) (*AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{users: users, tokens: tokens, dummyHash: dummy}, nil
}

// Login verifies the credentials and issues a token whose claims carry the
// stored role and nothing else. An unknown username and a wrong password
// fail with the identical error.
func (s *AuthService) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Burn the same verification cost as the found path.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return dto.LoginResponse{}, apperr.ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return dto.LoginResponse{}, apperr.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	return dto.LoginResponse{Token: token}, nil
}
