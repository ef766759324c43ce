package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/apiseclab/backend/internal/apperr"
	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/authz"
	"github.com/apiseclab/backend/internal/models/dto"
	"github.com/apiseclab/backend/internal/storage"
)

// transferRetries bounds how often a transfer re-reads and retries after
// losing the optimistic-concurrency race.
const transferRetries = 3

// AccountService implements the account use cases. Balance viewing and
// transfers require strict ownership; the admin role grants no override on
// financial resources.
type AccountService struct {
	accounts    storage.AccountStore
	maxTransfer decimal.Decimal
}

// NewAccountService constructs the service with the configured transfer cap.
func NewAccountService(accounts storage.AccountStore, maxTransfer decimal.Decimal) *AccountService {
	return &AccountService{accounts: accounts, maxTransfer: maxTransfer}
}

// Balance returns the account balance to its owner.
func (s *AccountService) Balance(ctx context.Context, accountID int64, p auth.Principal) (dto.BalanceResponse, error) {
	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return dto.BalanceResponse{}, apperr.ErrNotFound
		}
		return dto.BalanceResponse{}, err
	}
	if !authz.OwnsResource(p, account.OwnerUserID) {
		return dto.BalanceResponse{}, apperr.ErrAccessDenied
	}
	return dto.BalanceResponse{Balance: account.Balance}, nil
}

// Transfer withdraws amount from the account after validating bounds,
// ownership, and funds. The read-modify-write commits through a versioned
// store write so concurrent transfers cannot lose an update.
func (s *AccountService) Transfer(ctx context.Context, accountID int64, amount decimal.Decimal, p auth.Principal) (dto.TransferResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return dto.TransferResponse{}, apperr.ErrAmountInvalid
	}
	if amount.GreaterThan(s.maxTransfer) {
		return dto.TransferResponse{}, apperr.ErrAmountTooLarge
	}

	for attempt := 0; attempt < transferRetries; attempt++ {
		account, err := s.accounts.FindAccountByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return dto.TransferResponse{}, apperr.ErrNotFound
			}
			return dto.TransferResponse{}, err
		}
		if !authz.OwnsResource(p, account.OwnerUserID) {
			return dto.TransferResponse{}, apperr.ErrAccessDenied
		}
		if account.Balance.LessThan(amount) {
			return dto.TransferResponse{}, apperr.ErrInsufficientFunds
		}

		updated, err := s.accounts.UpdateAccountBalance(ctx, account.ID, account.Balance.Sub(amount), account.Version)
		if err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				continue
			}
			if errors.Is(err, storage.ErrNotFound) {
				return dto.TransferResponse{}, apperr.ErrNotFound
			}
			return dto.TransferResponse{}, err
		}
		return dto.TransferResponse{Status: "ok", Remaining: updated.Balance}, nil
	}

	return dto.TransferResponse{}, apperr.ErrConcurrentUpdate
}

// Mine lists the caller's accounts projected to {accountId, balance}.
func (s *AccountService) Mine(ctx context.Context, p auth.Principal) ([]dto.AccountSummary, error) {
	accounts, err := s.accounts.ListAccountsByOwner(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return dto.AccountSummariesOf(accounts), nil
}
