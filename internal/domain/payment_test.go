package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestApplyPayment_DownPaymentThenSettle(t *testing.T) {
	state, err := NewUnpaidState(decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	state, err = state.ApplyPayment(decimal.NewFromInt(600))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if state.Status != PaymentPartial {
		t.Errorf("Expected status dp, got %s", state.Status)
	}
	if !state.DownPayment.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected down payment 600, got %s", state.DownPayment)
	}
	if !state.Remaining.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected remaining 400, got %s", state.Remaining)
	}

	state, err = state.ApplyPayment(decimal.NewFromInt(400))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if state.Status != PaymentPaid {
		t.Errorf("Expected status lunas, got %s", state.Status)
	}
	if !state.Remaining.IsZero() {
		t.Errorf("Expected remaining 0, got %s", state.Remaining)
	}
}

func TestApplyPayment_FullFromUnpaid(t *testing.T) {
	state, _ := NewUnpaidState(decimal.NewFromInt(2500000))

	state, err := state.ApplyPayment(decimal.NewFromInt(2500000))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if state.Status != PaymentPaid {
		t.Errorf("Expected status lunas, got %s", state.Status)
	}
	if !state.Realized().Equal(decimal.NewFromInt(2500000)) {
		t.Errorf("Expected realized 2500000, got %s", state.Realized())
	}
}

func TestApplyPayment_Guards(t *testing.T) {
	unpaid, _ := NewUnpaidState(decimal.NewFromInt(1000))
	partial, _ := unpaid.ApplyPayment(decimal.NewFromInt(300))
	paid, _ := unpaid.ApplyPayment(decimal.NewFromInt(1000))

	tests := []struct {
		name   string
		state  PaymentState
		amount decimal.Decimal
	}{
		{"zero payment", unpaid, decimal.Zero},
		{"negative payment", unpaid, decimal.NewFromInt(-5)},
		{"overpayment from unpaid", unpaid, decimal.NewFromInt(1001)},
		{"partial settle short", partial, decimal.NewFromInt(600)},
		{"partial settle over", partial, decimal.NewFromInt(800)},
		{"payment against lunas", paid, decimal.NewFromInt(1)},
	}

	for _, tt := range tests {
		if _, err := tt.state.ApplyPayment(tt.amount); err != ErrInvalidPayment {
			t.Errorf("%s: expected ErrInvalidPayment, got %v", tt.name, err)
		}
	}
}

func TestNewPaymentState_Invariants(t *testing.T) {
	// dp requires 0 < downPayment < total
	if _, err := NewPaymentState(PaymentPartial, decimal.NewFromInt(100), decimal.Zero); err != ErrInvalidPayment {
		t.Errorf("Expected ErrInvalidPayment for dp with zero down payment, got %v", err)
	}
	if _, err := NewPaymentState(PaymentPartial, decimal.NewFromInt(100), decimal.NewFromInt(100)); err != ErrInvalidPayment {
		t.Errorf("Expected ErrInvalidPayment for down payment == total, got %v", err)
	}
	// belum_bayar must not carry a down payment
	if _, err := NewPaymentState(PaymentUnpaid, decimal.NewFromInt(100), decimal.NewFromInt(10)); err != ErrInvalidPayment {
		t.Errorf("Expected ErrInvalidPayment for unpaid with down payment, got %v", err)
	}

	state, err := NewPaymentState(PaymentPartial, decimal.NewFromInt(100), decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !state.DownPayment.Add(state.Remaining).Equal(state.Total) {
		t.Errorf("Expected downPayment + remaining == total, got %s + %s != %s",
			state.DownPayment, state.Remaining, state.Total)
	}
}

func TestRealizedPlusOutstandingEqualsTotal(t *testing.T) {
	total := decimal.NewFromInt(750000)
	unpaid, _ := NewUnpaidState(total)
	partial, _ := unpaid.ApplyPayment(decimal.NewFromInt(200000))
	paid, _ := partial.ApplyPayment(decimal.NewFromInt(550000))

	for _, state := range []PaymentState{unpaid, partial, paid} {
		sum := state.Realized().Add(state.Outstanding())
		if !sum.Equal(total) {
			t.Errorf("status %s: realized + outstanding = %s, want %s", state.Status, sum, total)
		}
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, valid := range []string{"belum_bayar", "dp", "lunas"} {
		if _, err := ParsePaymentStatus(valid); err != nil {
			t.Errorf("Expected %q to parse, got %v", valid, err)
		}
	}
	if _, err := ParsePaymentStatus("cicilan"); err != ErrInvalidPayment {
		t.Errorf("Expected ErrInvalidPayment for unknown status, got %v", err)
	}
}
