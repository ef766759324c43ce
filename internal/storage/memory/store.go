// Package memory provides a mutex-guarded in-memory Store used by tests
// and by demo mode when no database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/apiseclab/backend/internal/models"
	"github.com/apiseclab/backend/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store keeps users and accounts in maps behind a single RWMutex.
type Store struct {
	mu            sync.RWMutex
	users         map[int64]models.AppUser
	accounts      map[int64]models.Account
	usernameIndex map[string]int64
	nextUserID    int64
	nextAccountID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[int64]models.AppUser),
		accounts:      make(map[int64]models.Account),
		usernameIndex: make(map[string]int64),
	}
}

// CreateUser inserts a user, assigning the next id.
func (s *Store) CreateUser(ctx context.Context, user models.AppUser) (models.AppUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usernameIndex[user.Username]; exists {
		return models.AppUser{}, storage.ErrAlreadyExists
	}
	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = user
	s.usernameIndex[user.Username] = user.ID
	return user, nil
}

// FindUserByID fetches a user by id.
func (s *Store) FindUserByID(ctx context.Context, id int64) (models.AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return models.AppUser{}, storage.ErrNotFound
	}
	return user, nil
}

// FindUserByUsername fetches a user by username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return models.AppUser{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

// SearchUsers returns users whose username contains the query, case-insensitively.
func (s *Store) SearchUsers(ctx context.Context, query string) ([]models.AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(query)
	var out []models.AppUser
	for _, user := range s.users {
		if strings.Contains(strings.ToLower(user.Username), needle) {
			out = append(out, user)
		}
	}
	sortUsers(out)
	return out, nil
}

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]models.AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AppUser, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	sortUsers(out)
	return out, nil
}

// DeleteUser removes a user by id.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	delete(s.usernameIndex, user.Username)
	return nil
}

// CreateAccount inserts an account, assigning the next id.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAccountID++
	account.ID = s.nextAccountID
	account.Version = 0
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	s.accounts[account.ID] = account
	return account, nil
}

// FindAccountByID fetches an account by id.
func (s *Store) FindAccountByID(ctx context.Context, id int64) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	return account, nil
}

// ListAccountsByOwner returns the accounts owned by the user, ordered by id.
func (s *Store) ListAccountsByOwner(ctx context.Context, ownerUserID int64) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Account
	for _, account := range s.accounts {
		if account.OwnerUserID == ownerUserID {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateAccountBalance commits the new balance only if the stored version
// still matches expectedVersion.
func (s *Store) UpdateAccountBalance(ctx context.Context, id int64, balance decimal.Decimal, expectedVersion int64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	if account.Version != expectedVersion {
		return models.Account{}, storage.ErrVersionConflict
	}
	account.Balance = balance
	account.Version++
	s.accounts[id] = account
	return account, nil
}

func sortUsers(users []models.AppUser) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}
