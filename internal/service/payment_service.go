package service

import (
	"fmt"
	"strings"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentService runs the payment state machine for transactions and
// inventory items and keeps the fund ledger in step. The ledger posting
// always happens before the status write: if the posting fails, the
// obligation stays in its previous state and the caller re-attempts the
// whole operation.
type PaymentService struct {
	transactionRepo domain.TransactionRepository
	inventoryRepo   domain.InventoryRepository
	ledger          *LedgerService
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(transactionRepo domain.TransactionRepository, inventoryRepo domain.InventoryRepository, ledger *LedgerService) *PaymentService {
	return &PaymentService{
		transactionRepo: transactionRepo,
		inventoryRepo:   inventoryRepo,
		ledger:          ledger,
	}
}

// PaymentInput holds one payment submission. ReferenceID is the caller's
// idempotency key for the ledger posting.
type PaymentInput struct {
	Amount      decimal.Decimal
	ReferenceID string
	Actor       string
}

func (in *PaymentInput) validate() error {
	if strings.TrimSpace(in.ReferenceID) == "" {
		return domain.ErrInvalidInput
	}
	if strings.TrimSpace(in.Actor) == "" {
		return domain.ErrActorRequired
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidPayment
	}
	return nil
}

// PayTransaction applies a client payment against a transaction. The receipt
// is credited to the transaction's fund.
func (s *PaymentService) PayTransaction(id int32, input PaymentInput) (*domain.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	state, err := tx.PaymentState()
	if err != nil {
		return nil, err
	}
	next, err := state.ApplyPayment(input.Amount)
	if err != nil {
		return nil, err
	}

	// Ledger first. A failed credit leaves the status untouched.
	ref := fmt.Sprintf("txn-%d-%s", id, input.ReferenceID)
	if _, err := s.ledger.PostCredit(tx.Fund, input.Amount, ref); err != nil {
		return nil, err
	}

	return s.transactionRepo.UpdatePayment(id, next, input.Actor)
}

// PayInventoryItem applies a purchase/subscription payment against an
// inventory item. The payment is debited from the item's fund.
func (s *PaymentService) PayInventoryItem(id int32, input PaymentInput) (*domain.InventoryItem, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	item, err := s.inventoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	state, err := item.PaymentState()
	if err != nil {
		return nil, err
	}
	next, err := state.ApplyPayment(input.Amount)
	if err != nil {
		return nil, err
	}

	ref := fmt.Sprintf("inv-%d-%s", id, input.ReferenceID)
	if _, err := s.ledger.PostDebit(item.Fund, input.Amount, ref); err != nil {
		return nil, err
	}

	return s.inventoryRepo.UpdatePayment(id, next, input.Actor)
}

// OverrideTransactionPayment is the administrative correction path: it sets
// the payment state directly, bypassing the transition guards but still
// enforcing the amount invariants. No ledger posting is made; corrections
// are reconciled manually.
func (s *PaymentService) OverrideTransactionPayment(id int32, status domain.PaymentStatus, downPayment decimal.Decimal, actor string) (*domain.Transaction, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, domain.ErrActorRequired
	}

	tx, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	state, err := domain.NewPaymentState(status, tx.ProjectValue, downPayment)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.UpdatePayment(id, state, actor)
}
