package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating cost. Expenses are realized at posting time, so
// Amount always counts against real profit in the month of Date. The
// optional links attribute the cost to a project or to an inventory
// purchase/subscription payment. ReferenceID is the caller's idempotency
// key; it also keys the fund debit, so a re-submitted expense can never
// produce a second row or a second debit.
type Expense struct {
	ID            int32           `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	TransactionID *int32          `json:"transactionId,omitempty"`
	ItemID        *int32          `json:"inventoryItemId,omitempty"`
	Fund          FundType        `json:"fundType"`
	ReferenceID   string          `json:"referenceId"`
	AuditFields
}

type ExpenseRepository interface {
	Create(e *Expense) (*Expense, error)
	GetByID(id int32) (*Expense, error)
	GetByReference(referenceID string) (*Expense, error)
	List(filters *RecordFilters) ([]*Expense, error)
	UpdateLifecycle(id int32, audit AuditFields) (*Expense, error)
}
