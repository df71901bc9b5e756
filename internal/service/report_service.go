package service

import (
	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
)

// ReportService fetches record snapshots and runs the monthly aggregation
// over them. All the arithmetic lives in pure functions in the domain
// package; this layer only resolves filters and feeds them.
type ReportService struct {
	transactionRepo domain.TransactionRepository
	expenseRepo     domain.ExpenseRepository
}

// NewReportService creates a new ReportService
func NewReportService(transactionRepo domain.TransactionRepository, expenseRepo domain.ExpenseRepository) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		expenseRepo:     expenseRepo,
	}
}

// MonthlyReport buckets the in-scope records by calendar month and returns
// portfolio totals across the buckets. Filters are applied to the record
// set before bucketing; archived records stay out unless asked for.
func (s *ReportService) MonthlyReport(filters *domain.RecordFilters) (*domain.PortfolioSummary, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.List(filters)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.List(filters)
	if err != nil {
		return nil, err
	}

	buckets := domain.BuildMonthlyBuckets(transactions, expenses)
	return domain.Summarize(buckets), nil
}

// BucketBreakdown computes the per-category and per-status breakdown for
// one selected month, on demand rather than for every bucket.
func (s *ReportService) BucketBreakdown(year, month int) (*domain.BucketBreakdown, error) {
	filters := &domain.RecordFilters{Year: &year, Month: &month}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.List(filters)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.List(filters)
	if err != nil {
		return nil, err
	}

	return domain.BuildBucketBreakdown(transactions, expenses, year, month), nil
}
