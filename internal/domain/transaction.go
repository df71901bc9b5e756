package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a client project engagement: the contracted value, its
// payment position and the fund receipts land in. Date is the accrual date
// used for monthly bucketing; StartDate/EndDate are the optional service
// window shown on the project report.
type Transaction struct {
	ID            int32           `json:"id"`
	Name          string          `json:"name"`
	ClientName    *string         `json:"clientName,omitempty"`
	ProjectValue  decimal.Decimal `json:"projectValue"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	DownPayment   decimal.Decimal `json:"downPaymentAmount"`
	Remaining     decimal.Decimal `json:"remainingAmount"`
	Date          time.Time       `json:"date"`
	StartDate     *time.Time      `json:"startDate,omitempty"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	Fund          FundType        `json:"fundType"`
	AuditFields
}

// PaymentState rebuilds the payment machine state from the stored fields.
func (t *Transaction) PaymentState() (PaymentState, error) {
	return NewPaymentState(t.PaymentStatus, t.ProjectValue, t.DownPayment)
}

type TransactionRepository interface {
	Create(t *Transaction) (*Transaction, error)
	GetByID(id int32) (*Transaction, error)
	List(filters *RecordFilters) ([]*Transaction, error)
	Update(t *Transaction) (*Transaction, error)
	UpdatePayment(id int32, state PaymentState, actor string) (*Transaction, error)
	UpdateLifecycle(id int32, audit AuditFields) (*Transaction, error)
}
