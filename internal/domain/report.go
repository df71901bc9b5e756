package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MonthlyBucket aggregates the transactions and expenses whose accrual date
// falls in one calendar month. ExpectedProfit assumes every obligation is
// eventually paid in full; RealProfit counts only cash actually received.
// Both keep their sign: a loss month is a negative number, not zero.
type MonthlyBucket struct {
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	TransactionCount   int             `json:"transactionCount"`
	ExpenseCount       int             `json:"expenseCount"`
	TotalExpectedValue decimal.Decimal `json:"totalExpectedValue"`
	TotalPaid          decimal.Decimal `json:"totalPaid"`
	RemainingPayments  decimal.Decimal `json:"remainingPayments"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	ExpectedProfit     decimal.Decimal `json:"expectedProfit"`
	RealProfit         decimal.Decimal `json:"realProfit"`
}

// PortfolioSummary is the bucket list in scope plus whole-portfolio totals.
type PortfolioSummary struct {
	Buckets            []*MonthlyBucket `json:"buckets"`
	TotalExpectedValue decimal.Decimal  `json:"totalExpectedValue"`
	TotalPaid          decimal.Decimal  `json:"totalPaid"`
	RemainingPayments  decimal.Decimal  `json:"remainingPayments"`
	TotalExpenses      decimal.Decimal  `json:"totalExpenses"`
	ExpectedProfit     decimal.Decimal  `json:"expectedProfit"`
	RealProfit         decimal.Decimal  `json:"realProfit"`
}

// StatusTotal is the per-payment-status slice of a bucket breakdown.
type StatusTotal struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// BucketBreakdown is the on-demand secondary view of one bucket:
// expense totals per category and transaction totals per payment status.
type BucketBreakdown struct {
	Year                 int                           `json:"year"`
	Month                int                           `json:"month"`
	ExpensesByCategory   map[string]decimal.Decimal    `json:"expensesByCategory"`
	TransactionsByStatus map[PaymentStatus]StatusTotal `json:"transactionsByStatus"`
}

type bucketKey struct {
	year  int
	month int
}

// BuildMonthlyBuckets partitions records into calendar-month buckets and
// computes per-bucket totals. It is a pure function over the snapshots it is
// given: no hidden state, inputs are never mutated. Archived records are
// skipped. Buckets come back sorted ascending by (year, month).
func BuildMonthlyBuckets(transactions []*Transaction, expenses []*Expense) []*MonthlyBucket {
	buckets := make(map[bucketKey]*MonthlyBucket)

	get := func(k bucketKey) *MonthlyBucket {
		b, ok := buckets[k]
		if !ok {
			b = &MonthlyBucket{Year: k.year, Month: k.month}
			buckets[k] = b
		}
		return b
	}

	for _, t := range transactions {
		if t.IsDeleted {
			continue
		}
		state, err := t.PaymentState()
		if err != nil {
			// A stored record violating the payment invariants cannot be
			// aggregated meaningfully; skip rather than poison the report.
			continue
		}
		b := get(bucketKey{t.Date.Year(), int(t.Date.Month())})
		b.TransactionCount++
		b.TotalExpectedValue = b.TotalExpectedValue.Add(t.ProjectValue)
		b.TotalPaid = b.TotalPaid.Add(state.Realized())
		b.RemainingPayments = b.RemainingPayments.Add(state.Outstanding())
	}

	for _, e := range expenses {
		if e.IsDeleted {
			continue
		}
		b := get(bucketKey{e.Date.Year(), int(e.Date.Month())})
		b.ExpenseCount++
		b.TotalExpenses = b.TotalExpenses.Add(e.Amount)
	}

	result := make([]*MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		b.ExpectedProfit = b.TotalExpectedValue.Sub(b.TotalExpenses)
		b.RealProfit = b.TotalPaid.Sub(b.TotalExpenses)
		result = append(result, b)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result
}

// Summarize sums the buckets into whole-portfolio totals.
func Summarize(buckets []*MonthlyBucket) *PortfolioSummary {
	s := &PortfolioSummary{Buckets: buckets}
	for _, b := range buckets {
		s.TotalExpectedValue = s.TotalExpectedValue.Add(b.TotalExpectedValue)
		s.TotalPaid = s.TotalPaid.Add(b.TotalPaid)
		s.RemainingPayments = s.RemainingPayments.Add(b.RemainingPayments)
		s.TotalExpenses = s.TotalExpenses.Add(b.TotalExpenses)
		s.ExpectedProfit = s.ExpectedProfit.Add(b.ExpectedProfit)
		s.RealProfit = s.RealProfit.Add(b.RealProfit)
	}
	return s
}

// BuildBucketBreakdown computes the secondary breakdown for one month.
// Records outside the month and archived records are ignored.
func BuildBucketBreakdown(transactions []*Transaction, expenses []*Expense, year, month int) *BucketBreakdown {
	bd := &BucketBreakdown{
		Year:                 year,
		Month:                month,
		ExpensesByCategory:   make(map[string]decimal.Decimal),
		TransactionsByStatus: make(map[PaymentStatus]StatusTotal),
	}

	for _, t := range transactions {
		if t.IsDeleted || t.Date.Year() != year || int(t.Date.Month()) != month {
			continue
		}
		st := bd.TransactionsByStatus[t.PaymentStatus]
		st.Count++
		st.Total = st.Total.Add(t.ProjectValue)
		bd.TransactionsByStatus[t.PaymentStatus] = st
	}

	for _, e := range expenses {
		if e.IsDeleted || e.Date.Year() != year || int(e.Date.Month()) != month {
			continue
		}
		bd.ExpensesByCategory[e.Category] = bd.ExpensesByCategory[e.Category].Add(e.Amount)
	}
	return bd
}
