package service

import (
	"errors"
	"testing"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/gilangpr/kasku/kasku-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func seedTransaction(repo *testutil.MockTransactionRepository, value int64) *domain.Transaction {
	tx := &domain.Transaction{
		Name:          "Company profile video",
		ProjectValue:  decimal.NewFromInt(value),
		PaymentStatus: domain.PaymentUnpaid,
		Remaining:     decimal.NewFromInt(value),
		Date:          time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Fund:          domain.FundProfitBank,
		AuditFields:   domain.AuditFields{CreatedBy: "rani", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
	repo.AddTransaction(tx)
	return tx
}

func TestPayTransaction_DownPaymentThenSettle(t *testing.T) {
	txRepo := testutil.NewMockTransactionRepository()
	invRepo := testutil.NewMockInventoryRepository()
	fundRepo := testutil.NewMockFundRepository()
	svc := NewPaymentService(txRepo, invRepo, NewLedgerService(fundRepo))

	tx := seedTransaction(txRepo, 1000)

	updated, err := svc.PayTransaction(tx.ID, PaymentInput{
		Amount:      decimal.NewFromInt(600),
		ReferenceID: "dp",
		Actor:       "rani",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.PaymentStatus != domain.PaymentPartial {
		t.Errorf("Expected status dp, got %s", updated.PaymentStatus)
	}
	if !updated.Remaining.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected remaining 400, got %s", updated.Remaining)
	}

	// Receipt credited to the transaction's fund.
	balance, _ := fundRepo.GetBalance(domain.FundProfitBank)
	if !balance.CurrentBalance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected fund credited 600, got %s", balance.CurrentBalance)
	}

	updated, err = svc.PayTransaction(tx.ID, PaymentInput{
		Amount:      decimal.NewFromInt(400),
		ReferenceID: "settle",
		Actor:       "rani",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.PaymentStatus != domain.PaymentPaid {
		t.Errorf("Expected status lunas, got %s", updated.PaymentStatus)
	}
	if !updated.Remaining.IsZero() {
		t.Errorf("Expected remaining 0, got %s", updated.Remaining)
	}

	balance, _ = fundRepo.GetBalance(domain.FundProfitBank)
	if !balance.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected fund credited 1000 in total, got %s", balance.CurrentBalance)
	}
}

func TestPayTransaction_InvalidAmounts(t *testing.T) {
	txRepo := testutil.NewMockTransactionRepository()
	invRepo := testutil.NewMockInventoryRepository()
	fundRepo := testutil.NewMockFundRepository()
	svc := NewPaymentService(txRepo, invRepo, NewLedgerService(fundRepo))

	tx := seedTransaction(txRepo, 1000)

	for _, amount := range []int64{0, -10, 1500} {
		_, err := svc.PayTransaction(tx.ID, PaymentInput{
			Amount:      decimal.NewFromInt(amount),
			ReferenceID: "bad",
			Actor:       "rani",
		})
		if !errors.Is(err, domain.ErrInvalidPayment) {
			t.Errorf("amount %d: expected ErrInvalidPayment, got %v", amount, err)
		}
	}

	// Nothing may have touched the ledger.
	balance, _ := fundRepo.GetBalance(domain.FundProfitBank)
	if !balance.CurrentBalance.IsZero() {
		t.Errorf("Expected untouched balance, got %s", balance.CurrentBalance)
	}
}

func TestPayTransaction_LedgerFailureLeavesStatusUnchanged(t *testing.T) {
	txRepo := testutil.NewMockTransactionRepository()
	invRepo := testutil.NewMockInventoryRepository()
	fundRepo := testutil.NewMockFundRepository()
	fundRepo.PostDeltaFn = func(fund domain.FundType, delta decimal.Decimal, referenceID string) (*domain.FundBalance, error) {
		return nil, domain.ErrInternalError
	}
	svc := NewPaymentService(txRepo, invRepo, NewLedgerService(fundRepo))

	tx := seedTransaction(txRepo, 1000)

	_, err := svc.PayTransaction(tx.ID, PaymentInput{
		Amount:      decimal.NewFromInt(600),
		ReferenceID: "dp",
		Actor:       "rani",
	})
	if err == nil {
		t.Fatal("Expected ledger failure to surface")
	}

	stored, _ := txRepo.GetByID(tx.ID)
	if stored.PaymentStatus != domain.PaymentUnpaid {
		t.Errorf("Expected status unchanged after ledger failure, got %s", stored.PaymentStatus)
	}
	if !stored.DownPayment.IsZero() {
		t.Errorf("Expected down payment unchanged, got %s", stored.DownPayment)
	}
}

func TestPayTransaction_ReplayIsAbsorbed(t *testing.T) {
	txRepo := testutil.NewMockTransactionRepository()
	invRepo := testutil.NewMockInventoryRepository()
	fundRepo := testutil.NewMockFundRepository()
	svc := NewPaymentService(txRepo, invRepo, NewLedgerService(fundRepo))

	tx := seedTransaction(txRepo, 1000)

	input := PaymentInput{Amount: decimal.NewFromInt(1000), ReferenceID: "full", Actor: "rani"}
	if _, err := svc.PayTransaction(tx.ID, input); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// Second submission with the same reference: the ledger absorbs the
	// replay, but the obligation is already lunas.
	if _, err := svc.PayTransaction(tx.ID, input); !errors.Is(err, domain.ErrInvalidPayment) {
		t.Errorf("Expected ErrInvalidPayment on paying a settled obligation, got %v", err)
	}

	balance, _ := fundRepo.GetBalance(domain.FundProfitBank)
	if !balance.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected single credit of 1000, got %s", balance.CurrentBalance)
	}
}

func TestPayInventoryItem_DebitsFund(t *testing.T) {
	txRepo := testutil.NewMockTransactionRepository()
	invRepo := testutil.NewMockInventoryRepository()
	fundRepo := testutil.NewMockFundRepository()
	svc := NewPaymentService(txRepo, invRepo, NewLedgerService(fundRepo))

	item := &domain.InventoryItem{
		Name:          "Adobe Creative Cloud",
		Type:          domain.ItemSubscription,
		Cost:          decimal.NewFromInt(800000),
		PaymentStatus: domain.PaymentUnpaid,
		Remaining:     decimal.NewFromInt(800000),
		PurchaseDate:  time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Fund:          domain.FundPettyCash,
		AuditFields:   domain.AuditFields{CreatedBy: "rani", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
	invRepo.AddItem(item)

	updated, err := svc.PayInventoryItem(item.ID, PaymentInput{
		Amount:      decimal.NewFromInt(800000),
		ReferenceID: "full",
		Actor:       "dimas",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.PaymentStatus != domain.PaymentPaid {
		t.Errorf("Expected status lunas, got %s", updated.PaymentStatus)
	}

	balance, _ := fundRepo.GetBalance(domain.FundPettyCash)
	if !balance.CurrentBalance.Equal(decimal.NewFromInt(-800000)) {
		t.Errorf("Expected fund debited 800000, got %s", balance.CurrentBalance)
	}
}

func TestOverrideTransactionPayment(t *testing.T) {
	txRepo := testutil.NewMockTransactionRepository()
	invRepo := testutil.NewMockInventoryRepository()
	fundRepo := testutil.NewMockFundRepository()
	svc := NewPaymentService(txRepo, invRepo, NewLedgerService(fundRepo))

	tx := seedTransaction(txRepo, 1000)
	if _, err := svc.PayTransaction(tx.ID, PaymentInput{Amount: decimal.NewFromInt(1000), ReferenceID: "full", Actor: "rani"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Administrative correction back to dp, bypassing transition guards.
	updated, err := svc.OverrideTransactionPayment(tx.ID, domain.PaymentPartial, decimal.NewFromInt(250), "admin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.PaymentStatus != domain.PaymentPartial {
		t.Errorf("Expected status dp, got %s", updated.PaymentStatus)
	}
	if !updated.Remaining.Equal(decimal.NewFromInt(750)) {
		t.Errorf("Expected remaining 750, got %s", updated.Remaining)
	}

	// Invariants still hold on the override path.
	if _, err := svc.OverrideTransactionPayment(tx.ID, domain.PaymentPartial, decimal.NewFromInt(1000), "admin"); !errors.Is(err, domain.ErrInvalidPayment) {
		t.Errorf("Expected ErrInvalidPayment for down payment == total, got %v", err)
	}
}
