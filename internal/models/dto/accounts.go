package dto

import (
	"github.com/shopspring/decimal"

	"github.com/apiseclab/backend/internal/models"
)

type TransferRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransferResponse struct {
	Status    string          `json:"status"`
	Remaining decimal.Decimal `json:"remaining"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// AccountSummary is the allow-list projection of an account: id and balance
// only, no owner reference or internal fields.
type AccountSummary struct {
	AccountID int64           `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountSummaryOf projects an account through the allow-list.
func AccountSummaryOf(a models.Account) AccountSummary {
	return AccountSummary{AccountID: a.ID, Balance: a.Balance}
}

// AccountSummariesOf projects a slice of accounts, returning an empty
// slice rather than nil so callers serialize [] instead of null.
func AccountSummariesOf(accounts []models.Account) []AccountSummary {
	out := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountSummaryOf(a))
	}
	return out
}
