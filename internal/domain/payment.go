package domain

import "github.com/shopspring/decimal"

// PaymentStatus is the three-state obligation machine used by both client
// transactions and purchased inventory/subscriptions. The wire values are
// the product's Indonesian labels.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "belum_bayar"
	PaymentPartial PaymentStatus = "dp"
	PaymentPaid    PaymentStatus = "lunas"
)

// ParsePaymentStatus validates a payment status token.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return PaymentStatus(s), nil
	}
	return "", ErrInvalidPayment
}

// PaymentState is the payment position of a single obligation.
// Invariants: DownPayment + Remaining == Total while status is dp;
// Remaining == 0 when lunas; DownPayment == 0 and Remaining == Total
// when belum_bayar.
type PaymentState struct {
	Status      PaymentStatus   `json:"status"`
	Total       decimal.Decimal `json:"total"`
	DownPayment decimal.Decimal `json:"downPayment"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// NewUnpaidState returns the initial state for an obligation of the given total.
func NewUnpaidState(total decimal.Decimal) (PaymentState, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return PaymentState{}, ErrInvalidAmount
	}
	return PaymentState{
		Status:    PaymentUnpaid,
		Total:     total,
		Remaining: total,
	}, nil
}

// NewPaymentState reconstructs a state from persisted fields, enforcing the
// amount invariants. Used when loading records and for administrative
// overrides, which bypass the transition guards but never the invariants.
func NewPaymentState(status PaymentStatus, total, downPayment decimal.Decimal) (PaymentState, error) {
	if total.LessThanOrEqual(decimal.Zero) || downPayment.IsNegative() {
		return PaymentState{}, ErrInvalidPayment
	}
	switch status {
	case PaymentUnpaid:
		if !downPayment.IsZero() {
			return PaymentState{}, ErrInvalidPayment
		}
		return PaymentState{Status: status, Total: total, Remaining: total}, nil
	case PaymentPartial:
		if downPayment.LessThanOrEqual(decimal.Zero) || downPayment.GreaterThanOrEqual(total) {
			return PaymentState{}, ErrInvalidPayment
		}
		return PaymentState{Status: status, Total: total, DownPayment: downPayment, Remaining: total.Sub(downPayment)}, nil
	case PaymentPaid:
		return PaymentState{Status: status, Total: total, DownPayment: downPayment, Remaining: decimal.Zero}, nil
	}
	return PaymentState{}, ErrInvalidPayment
}

// ApplyPayment advances the state machine with a payment of the given amount.
// Transitions are forward-only:
//   - belum_bayar -> dp requires 0 < amount < total
//   - belum_bayar -> lunas requires amount == total
//   - dp -> lunas requires amount == remaining
//
// Anything else, including any payment against a lunas obligation, is
// ErrInvalidPayment.
func (p PaymentState) ApplyPayment(amount decimal.Decimal) (PaymentState, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return p, ErrInvalidPayment
	}
	switch p.Status {
	case PaymentUnpaid:
		if amount.Equal(p.Total) {
			return PaymentState{Status: PaymentPaid, Total: p.Total, DownPayment: p.DownPayment, Remaining: decimal.Zero}, nil
		}
		if amount.LessThan(p.Total) {
			return PaymentState{Status: PaymentPartial, Total: p.Total, DownPayment: amount, Remaining: p.Total.Sub(amount)}, nil
		}
		return p, ErrInvalidPayment
	case PaymentPartial:
		if amount.Equal(p.Remaining) {
			return PaymentState{Status: PaymentPaid, Total: p.Total, DownPayment: p.DownPayment, Remaining: decimal.Zero}, nil
		}
		return p, ErrInvalidPayment
	}
	return p, ErrInvalidPayment
}

// Realized is the amount actually received for reporting:
// lunas -> total, dp -> down payment, belum_bayar -> 0.
func (p PaymentState) Realized() decimal.Decimal {
	switch p.Status {
	case PaymentPaid:
		return p.Total
	case PaymentPartial:
		return p.DownPayment
	}
	return decimal.Zero
}

// Outstanding is total minus realized.
func (p PaymentState) Outstanding() decimal.Decimal {
	return p.Total.Sub(p.Realized())
}
