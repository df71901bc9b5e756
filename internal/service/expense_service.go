package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseService handles operating expense business logic. Expenses are
// realized at posting time, so creating one immediately debits its fund.
type ExpenseService struct {
	expenseRepo     domain.ExpenseRepository
	transactionRepo domain.TransactionRepository
	inventoryRepo   domain.InventoryRepository
	ledger          *LedgerService
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, transactionRepo domain.TransactionRepository, inventoryRepo domain.InventoryRepository, ledger *LedgerService) *ExpenseService {
	return &ExpenseService{
		expenseRepo:     expenseRepo,
		transactionRepo: transactionRepo,
		inventoryRepo:   inventoryRepo,
		ledger:          ledger,
	}
}

// CreateExpenseInput holds the input for creating an expense. ReferenceID
// is the caller's idempotency key, same as PaymentInput.ReferenceID.
type CreateExpenseInput struct {
	Name          string
	Category      string
	Amount        decimal.Decimal
	Date          *time.Time
	TransactionID *int32
	ItemID        *int32
	Fund          domain.FundType
	ReferenceID   string
	Actor         string
}

// CreateExpense validates an expense, debits its fund, then persists the
// row. Both writes are keyed by the caller's reference: a replay of an
// already-recorded expense returns the stored row, and a re-submit after a
// failed insert is absorbed by the posting journal before the insert runs
// again, so exactly one row and one debit can result.
func (s *ExpenseService) CreateExpense(input CreateExpenseInput) (*domain.Expense, error) {
	// Validate name
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "lainnya"
	}

	if strings.TrimSpace(input.Actor) == "" {
		return nil, domain.ErrActorRequired
	}

	reference := strings.TrimSpace(input.ReferenceID)
	if reference == "" {
		return nil, domain.ErrInvalidInput
	}

	// Validate amount (must be positive)
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	// Validate fund
	if _, err := domain.ParseFundType(string(input.Fund)); err != nil {
		return nil, err
	}

	// A replay of an already-recorded expense returns the stored row. A
	// reused reference with a different amount is a caller defect.
	existing, err := s.expenseRepo.GetByReference(reference)
	if err == nil {
		if !existing.Amount.Equal(input.Amount) {
			return nil, domain.ErrDuplicatePosting
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrExpenseNotFound) {
		return nil, err
	}

	// Validate cost attribution links if provided
	if input.TransactionID != nil {
		if _, err := s.transactionRepo.GetByID(*input.TransactionID); err != nil {
			return nil, err
		}
	}
	if input.ItemID != nil {
		if _, err := s.inventoryRepo.GetByID(*input.ItemID); err != nil {
			return nil, err
		}
	}

	// Default date to today if not provided
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	now := time.Now().UTC()
	expense := &domain.Expense{
		Name:          name,
		Category:      category,
		Amount:        input.Amount,
		Date:          date,
		TransactionID: input.TransactionID,
		ItemID:        input.ItemID,
		Fund:          input.Fund,
		ReferenceID:   reference,
		AuditFields: domain.AuditFields{
			CreatedBy: input.Actor,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	// Ledger first. If the insert below fails, a re-submit finds no row
	// under the reference, the debit replay is absorbed by the posting
	// journal, and the insert runs again.
	ref := fmt.Sprintf("exp-%s", reference)
	if _, err := s.ledger.PostDebit(input.Fund, input.Amount, ref); err != nil {
		return nil, err
	}

	return s.expenseRepo.Create(expense)
}

// GetExpense retrieves an expense by ID
func (s *ExpenseService) GetExpense(id int32) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(id)
}

// ListExpenses retrieves expenses with optional filters
func (s *ExpenseService) ListExpenses(filters *domain.RecordFilters) ([]*domain.Expense, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	return s.expenseRepo.List(filters)
}
