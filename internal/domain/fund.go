package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FundType string

const (
	FundPettyCash  FundType = "petty_cash"
	FundProfitBank FundType = "profit_bank"
)

// ParseFundType validates a fund identifier. The two funds are a closed set;
// any other token is a configuration error.
func ParseFundType(s string) (FundType, error) {
	switch FundType(s) {
	case FundPettyCash, FundProfitBank:
		return FundType(s), nil
	}
	return "", ErrUnknownFund
}

// FundBalance is the current position of one fund. Overdraft is permitted
// (a delayed reconciliation can legitimately post negative); Overdrawn is a
// warning-level signal for the caller, never an error.
type FundBalance struct {
	Fund           FundType        `json:"fund"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Overdrawn      bool            `json:"overdrawn"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// FundPosting is one journaled delta against a fund. Every posting is
// attributable to exactly one source record through ReferenceID, and the
// journal is the dedup key for idempotent replays.
type FundPosting struct {
	ID          int64           `json:"id"`
	Fund        FundType        `json:"fund"`
	Amount      decimal.Decimal `json:"amount"` // signed delta, debit < 0 < credit
	ReferenceID string          `json:"referenceId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type FundRepository interface {
	// PostDelta atomically applies a signed delta to the fund balance and
	// journals it under referenceID. Returns ErrDuplicatePosting if the
	// (fund, referenceID) pair has already been journaled.
	PostDelta(fund FundType, delta decimal.Decimal, referenceID string) (*FundBalance, error)
	GetPosting(fund FundType, referenceID string) (*FundPosting, error)
	GetBalance(fund FundType) (*FundBalance, error)
	ListBalances() ([]*FundBalance, error)
}
