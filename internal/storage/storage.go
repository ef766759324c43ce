package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/apiseclab/backend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrVersionConflict indicates an optimistic-concurrency write lost the
// race: the stored version changed since the caller read the record.
var ErrVersionConflict = errors.New("version conflict")

// UserStore captures user persistence operations needed by the use cases.
type UserStore interface {
	CreateUser(ctx context.Context, user models.AppUser) (models.AppUser, error)
	FindUserByID(ctx context.Context, id int64) (models.AppUser, error)
	FindUserByUsername(ctx context.Context, username string) (models.AppUser, error)
	SearchUsers(ctx context.Context, query string) ([]models.AppUser, error)
	ListUsers(ctx context.Context) ([]models.AppUser, error)
	DeleteUser(ctx context.Context, id int64) error
}

// AccountStore captures account persistence operations.
//
// UpdateAccountBalance is the concurrency contract for transfers: the write
// commits only if the stored version still equals expectedVersion, otherwise
// it fails with ErrVersionConflict and the caller re-reads and retries.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	FindAccountByID(ctx context.Context, id int64) (models.Account, error)
	ListAccountsByOwner(ctx context.Context, ownerUserID int64) ([]models.Account, error)
	UpdateAccountBalance(ctx context.Context, id int64, balance decimal.Decimal, expectedVersion int64) (models.Account, error)
}

// Store is the full persistence collaborator.
type Store interface {
	UserStore
	AccountStore
}
