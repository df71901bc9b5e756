package service

import (
	"errors"
	"strings"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LedgerService posts money movement against the two funds. Postings are
// expressed as signed deltas so the balance mutation is a single atomic
// operation at the store, and every posting is journaled under a reference
// id so replays never double-post.
type LedgerService struct {
	fundRepo domain.FundRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(fundRepo domain.FundRepository) *LedgerService {
	return &LedgerService{fundRepo: fundRepo}
}

// PostDebit decreases the fund balance by amount, attributed to referenceID.
func (s *LedgerService) PostDebit(fund domain.FundType, amount decimal.Decimal, referenceID string) (*domain.FundBalance, error) {
	return s.post(fund, amount.Neg(), referenceID)
}

// PostCredit increases the fund balance by amount, attributed to referenceID.
func (s *LedgerService) PostCredit(fund domain.FundType, amount decimal.Decimal, referenceID string) (*domain.FundBalance, error) {
	return s.post(fund, amount, referenceID)
}

func (s *LedgerService) post(fund domain.FundType, delta decimal.Decimal, referenceID string) (*domain.FundBalance, error) {
	if _, err := domain.ParseFundType(string(fund)); err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return nil, domain.ErrInvalidAmount
	}
	if strings.TrimSpace(referenceID) == "" {
		return nil, domain.ErrInvalidInput
	}

	balance, err := s.fundRepo.PostDelta(fund, delta, referenceID)
	if errors.Is(err, domain.ErrDuplicatePosting) {
		// True replays are absorbed; a replay with a different amount is a
		// caller defect and surfaces as an error.
		existing, getErr := s.fundRepo.GetPosting(fund, referenceID)
		if getErr != nil {
			return nil, getErr
		}
		if !existing.Amount.Equal(delta) {
			return nil, domain.ErrDuplicatePosting
		}
		return s.fundRepo.GetBalance(fund)
	}
	if err != nil {
		return nil, err
	}

	if balance.CurrentBalance.IsNegative() {
		balance.Overdrawn = true
		log.Warn().
			Str("fund", string(fund)).
			Str("balance", balance.CurrentBalance.String()).
			Str("reference_id", referenceID).
			Msg("Fund overdrawn")
	}
	return balance, nil
}

// GetBalance returns the current position of one fund.
func (s *LedgerService) GetBalance(fund domain.FundType) (*domain.FundBalance, error) {
	if _, err := domain.ParseFundType(string(fund)); err != nil {
		return nil, err
	}
	balance, err := s.fundRepo.GetBalance(fund)
	if err != nil {
		return nil, err
	}
	balance.Overdrawn = balance.CurrentBalance.IsNegative()
	return balance, nil
}

// Balances returns the snapshot of both funds.
func (s *LedgerService) Balances() ([]*domain.FundBalance, error) {
	balances, err := s.fundRepo.ListBalances()
	if err != nil {
		return nil, err
	}
	for _, b := range balances {
		b.Overdrawn = b.CurrentBalance.IsNegative()
	}
	return balances, nil
}
