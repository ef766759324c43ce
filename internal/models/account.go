package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a financial account owned by exactly one user. Version backs
// the optimistic-concurrency write on balance updates.
type Account struct {
	ID          int64           `json:"id"`
	OwnerUserID int64           `json:"owner_user_id"`
	Balance     decimal.Decimal `json:"balance"`
	Version     int64           `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
}
