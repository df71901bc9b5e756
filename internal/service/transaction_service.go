package service

import (
	"strings"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionService handles client transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Name         string
	ClientName   *string
	ProjectValue decimal.Decimal
	Date         *time.Time
	StartDate    *time.Time
	EndDate      *time.Time
	Fund         domain.FundType
	Actor        string
}

// CreateTransaction creates a new transaction with validation. New
// transactions always start unpaid; money only moves through the payment
// engine.
func (s *TransactionService) CreateTransaction(input CreateTransactionInput) (*domain.Transaction, error) {
	// Validate name
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if strings.TrimSpace(input.Actor) == "" {
		return nil, domain.ErrActorRequired
	}

	// Validate project value (must be positive)
	if input.ProjectValue.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	// Validate fund
	if _, err := domain.ParseFundType(string(input.Fund)); err != nil {
		return nil, err
	}

	// Service window must be ordered when both ends are given
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, domain.ErrInvalidDate
	}

	// Default accrual date to today if not provided
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	state, err := domain.NewUnpaidState(input.ProjectValue)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transaction := &domain.Transaction{
		Name:          name,
		ClientName:    input.ClientName,
		ProjectValue:  input.ProjectValue,
		PaymentStatus: state.Status,
		DownPayment:   state.DownPayment,
		Remaining:     state.Remaining,
		Date:          date,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Fund:          input.Fund,
		AuditFields: domain.AuditFields{
			CreatedBy: input.Actor,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	return s.transactionRepo.Create(transaction)
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(id)
}

// ListTransactions retrieves transactions with optional filters
func (s *TransactionService) ListTransactions(filters *domain.RecordFilters) ([]*domain.Transaction, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	return s.transactionRepo.List(filters)
}

// UpdateTransactionInput holds the input for updating a transaction
type UpdateTransactionInput struct {
	Name       string
	ClientName *string
	Date       time.Time
	StartDate  *time.Time
	EndDate    *time.Time
	Actor      string
}

// UpdateTransaction updates descriptive fields of a transaction. Project
// value and payment fields are owned by the payment engine and are not
// touched here.
func (s *TransactionService) UpdateTransaction(id int32, input UpdateTransactionInput) (*domain.Transaction, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if strings.TrimSpace(input.Actor) == "" {
		return nil, domain.ErrActorRequired
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, domain.ErrInvalidDate
	}

	existing, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.ClientName = input.ClientName
	existing.Date = input.Date
	existing.StartDate = input.StartDate
	existing.EndDate = input.EndDate
	existing.UpdatedBy = &input.Actor
	existing.UpdatedAt = time.Now().UTC()

	return s.transactionRepo.Update(existing)
}
