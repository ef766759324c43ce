package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/apiseclab/backend/internal/apperr"
	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/authz"
	"github.com/apiseclab/backend/internal/models"
	"github.com/apiseclab/backend/internal/models/dto"
	"github.com/apiseclab/backend/internal/storage"
)

const minSearchQueryLen = 3

// UserService implements the user resource use cases.
type UserService struct {
	users storage.UserStore
}

// NewUserService constructs the service.
func NewUserService(users storage.UserStore) *UserService {
	return &UserService{users: users}
}

// Get returns the full user record to the user themselves or an admin.
func (s *UserService) Get(ctx context.Context, targetID int64, p auth.Principal) (models.AppUser, error) {
	if !authz.CanAccessResource(p, targetID) {
		return models.AppUser{}, apperr.ErrAccessDenied
	}
	target, err := s.users.FindUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.AppUser{}, apperr.ErrNotFound
		}
		return models.AppUser{}, err
	}
	return target, nil
}

// Create persists a new user on behalf of an admin. The privileged fields
// on the request are discarded unconditionally: every created user starts
// as a plain USER.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest, p auth.Principal) (models.AppUser, error) {
	if !authz.RequireAdmin(p) {
		return models.AppUser{}, apperr.ErrAccessDenied
	}
	return s.createUser(ctx, req.Username, req.Email, req.Password)
}

// Register self-registers a plain USER; the same forced-defaults policy as
// admin creation applies.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (models.AppUser, error) {
	return s.createUser(ctx, req.Username, req.Email, req.Password)
}

func (s *UserService) createUser(ctx context.Context, username, email, password string) (models.AppUser, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return models.AppUser{}, apperr.ErrMissingFields
	}
	if utf8.RuneCountInString(password) < 8 {
		return models.AppUser{}, apperr.ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.AppUser{}, err
	}

	user := models.AppUser{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsAdmin:      false,
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.AppUser{}, apperr.ErrAlreadyExists
		}
		return models.AppUser{}, err
	}
	return created, nil
}

// Search returns users matching the query, admin-only, with results
// minimized through the same allow-list as List.
func (s *UserService) Search(ctx context.Context, query string, p auth.Principal) ([]dto.UserSummary, error) {
	if utf8.RuneCountInString(query) < minSearchQueryLen {
		return nil, apperr.ErrQueryTooShort
	}
	if !authz.RequireAdmin(p) {
		return nil, apperr.ErrAccessDenied
	}
	matches, err := s.users.SearchUsers(ctx, query)
	if err != nil {
		return nil, err
	}
	return dto.UserSummariesOf(matches), nil
}

// List returns every user projected to {id, username, email}, admin-only.
func (s *UserService) List(ctx context.Context, p auth.Principal) ([]dto.UserSummary, error) {
	if !authz.RequireAdmin(p) {
		return nil, apperr.ErrAccessDenied
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return dto.UserSummariesOf(users), nil
}

// Delete removes a user; permitted to the user themselves or an admin.
func (s *UserService) Delete(ctx context.Context, targetID int64, p auth.Principal) (dto.DeleteResponse, error) {
	if !p.IsAdmin && p.UserID != targetID {
		return dto.DeleteResponse{}, apperr.ErrAccessDenied
	}
	if err := s.users.DeleteUser(ctx, targetID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return dto.DeleteResponse{}, apperr.ErrNotFound
		}
		return dto.DeleteResponse{}, err
	}
	return dto.DeleteResponse{Status: "deleted"}, nil
}
