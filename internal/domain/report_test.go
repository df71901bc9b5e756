package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testTransaction(id int32, day time.Time, value int64, status PaymentStatus, dp int64) *Transaction {
	return &Transaction{
		ID:            id,
		Name:          "Project",
		ProjectValue:  decimal.NewFromInt(value),
		PaymentStatus: status,
		DownPayment:   decimal.NewFromInt(dp),
		Remaining:     decimal.NewFromInt(value - dp),
		Date:          day,
		Fund:          FundProfitBank,
	}
}

func testExpense(id int32, day time.Time, amount int64, category string) *Expense {
	return &Expense{
		ID:       id,
		Name:     "Expense",
		Category: category,
		Amount:   decimal.NewFromInt(amount),
		Date:     day,
		Fund:     FundPettyCash,
	}
}

func TestBuildMonthlyBuckets_PartitionsAndTotals(t *testing.T) {
	jan := date(2025, time.January, 10)
	feb := date(2025, time.February, 5)

	transactions := []*Transaction{
		testTransaction(1, jan, 1000, PaymentPaid, 0),
		testTransaction(2, jan, 2000, PaymentPartial, 500),
		testTransaction(3, feb, 3000, PaymentUnpaid, 0),
	}
	expenses := []*Expense{
		testExpense(1, jan, 400, "software"),
		testExpense(2, feb, 100, "transport"),
	}

	buckets := BuildMonthlyBuckets(transactions, expenses)
	if len(buckets) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(buckets))
	}

	janBucket := buckets[0]
	if janBucket.Year != 2025 || janBucket.Month != 1 {
		t.Fatalf("Expected first bucket 2025-01, got %d-%d", janBucket.Year, janBucket.Month)
	}
	if !janBucket.TotalExpectedValue.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected expected value 3000, got %s", janBucket.TotalExpectedValue)
	}
	if !janBucket.TotalPaid.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected paid 1500, got %s", janBucket.TotalPaid)
	}
	if !janBucket.RemainingPayments.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected remaining 1500, got %s", janBucket.RemainingPayments)
	}
	if !janBucket.ExpectedProfit.Equal(decimal.NewFromInt(2600)) {
		t.Errorf("Expected expected profit 2600, got %s", janBucket.ExpectedProfit)
	}
	if !janBucket.RealProfit.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("Expected real profit 1100, got %s", janBucket.RealProfit)
	}

	febBucket := buckets[1]
	if !febBucket.TotalPaid.IsZero() {
		t.Errorf("Expected feb paid 0, got %s", febBucket.TotalPaid)
	}
	if !febBucket.RemainingPayments.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected feb remaining 3000, got %s", febBucket.RemainingPayments)
	}
}

func TestBuildMonthlyBuckets_LossKeepsSign(t *testing.T) {
	jan := date(2025, time.January, 3)
	buckets := BuildMonthlyBuckets(
		[]*Transaction{testTransaction(1, jan, 100, PaymentUnpaid, 0)},
		[]*Expense{testExpense(1, jan, 900, "rent")},
	)
	if len(buckets) != 1 {
		t.Fatalf("Expected 1 bucket, got %d", len(buckets))
	}
	if !buckets[0].ExpectedProfit.Equal(decimal.NewFromInt(-800)) {
		t.Errorf("Expected expected profit -800, got %s", buckets[0].ExpectedProfit)
	}
	if !buckets[0].RealProfit.Equal(decimal.NewFromInt(-900)) {
		t.Errorf("Expected real profit -900, got %s", buckets[0].RealProfit)
	}
}

func TestBuildMonthlyBuckets_ProfitGapEqualsReceivables(t *testing.T) {
	jan := date(2025, time.January, 3)
	buckets := BuildMonthlyBuckets(
		[]*Transaction{
			testTransaction(1, jan, 5000, PaymentPartial, 1200),
			testTransaction(2, jan, 700, PaymentPaid, 0),
		},
		[]*Expense{testExpense(1, jan, 333, "misc")},
	)
	b := buckets[0]
	gap := b.ExpectedProfit.Sub(b.RealProfit)
	unrealized := b.TotalExpectedValue.Sub(b.TotalPaid)
	if !gap.Equal(unrealized) {
		t.Errorf("Expected profit gap %s to equal unrealized receivables %s", gap, unrealized)
	}
	if !gap.Equal(b.RemainingPayments) {
		t.Errorf("Expected profit gap %s to equal remaining payments %s", gap, b.RemainingPayments)
	}
}

func TestBuildMonthlyBuckets_SkipsArchived(t *testing.T) {
	jan := date(2025, time.January, 3)
	archived := testTransaction(1, jan, 1000, PaymentPaid, 0)
	archived.IsDeleted = true
	archivedExp := testExpense(1, jan, 50, "misc")
	archivedExp.IsDeleted = true

	buckets := BuildMonthlyBuckets(
		[]*Transaction{archived, testTransaction(2, jan, 200, PaymentPaid, 0)},
		[]*Expense{archivedExp},
	)
	if len(buckets) != 1 {
		t.Fatalf("Expected 1 bucket, got %d", len(buckets))
	}
	if !buckets[0].TotalExpectedValue.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected archived transaction excluded, got total %s", buckets[0].TotalExpectedValue)
	}
	if !buckets[0].TotalExpenses.IsZero() {
		t.Errorf("Expected archived expense excluded, got %s", buckets[0].TotalExpenses)
	}
}

func TestBuildMonthlyBuckets_SortedAscending(t *testing.T) {
	buckets := BuildMonthlyBuckets([]*Transaction{
		testTransaction(1, date(2025, time.March, 1), 10, PaymentUnpaid, 0),
		testTransaction(2, date(2024, time.December, 1), 10, PaymentUnpaid, 0),
		testTransaction(3, date(2025, time.January, 1), 10, PaymentUnpaid, 0),
	}, nil)

	want := []struct{ y, m int }{{2024, 12}, {2025, 1}, {2025, 3}}
	for i, b := range buckets {
		if b.Year != want[i].y || b.Month != want[i].m {
			t.Errorf("bucket %d: got %d-%d, want %d-%d", i, b.Year, b.Month, want[i].y, want[i].m)
		}
	}
}

func TestSummarize(t *testing.T) {
	buckets := BuildMonthlyBuckets([]*Transaction{
		testTransaction(1, date(2025, time.January, 1), 1000, PaymentPaid, 0),
		testTransaction(2, date(2025, time.February, 1), 500, PaymentUnpaid, 0),
	}, []*Expense{
		testExpense(1, date(2025, time.January, 4), 300, "rent"),
	})

	s := Summarize(buckets)
	if !s.TotalExpectedValue.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected total expected 1500, got %s", s.TotalExpectedValue)
	}
	if !s.TotalPaid.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected total paid 1000, got %s", s.TotalPaid)
	}
	if !s.RealProfit.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected real profit 700, got %s", s.RealProfit)
	}
}

func TestBuildBucketBreakdown(t *testing.T) {
	jan := date(2025, time.January, 15)
	feb := date(2025, time.February, 15)

	bd := BuildBucketBreakdown(
		[]*Transaction{
			testTransaction(1, jan, 1000, PaymentPaid, 0),
			testTransaction(2, jan, 2000, PaymentPartial, 400),
			testTransaction(3, jan, 800, PaymentPaid, 0),
			testTransaction(4, feb, 999, PaymentUnpaid, 0),
		},
		[]*Expense{
			testExpense(1, jan, 100, "software"),
			testExpense(2, jan, 150, "software"),
			testExpense(3, jan, 70, "transport"),
			testExpense(4, feb, 999, "rent"),
		},
		2025, 1,
	)

	if !bd.ExpensesByCategory["software"].Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected software 250, got %s", bd.ExpensesByCategory["software"])
	}
	if !bd.ExpensesByCategory["transport"].Equal(decimal.NewFromInt(70)) {
		t.Errorf("Expected transport 70, got %s", bd.ExpensesByCategory["transport"])
	}
	if _, ok := bd.ExpensesByCategory["rent"]; ok {
		t.Error("Expected feb expense to be excluded from jan breakdown")
	}

	paid := bd.TransactionsByStatus[PaymentPaid]
	if paid.Count != 2 || !paid.Total.Equal(decimal.NewFromInt(1800)) {
		t.Errorf("Expected 2 lunas totaling 1800, got %d / %s", paid.Count, paid.Total)
	}
	if _, ok := bd.TransactionsByStatus[PaymentUnpaid]; ok {
		t.Error("Expected feb transaction to be excluded from jan breakdown")
	}
}
