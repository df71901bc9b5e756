package postgres

import (
	"context"
	"fmt"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, name, client_name, project_value, payment_status,
	down_payment, remaining, date, start_date, end_date, fund,
	created_by, created_at, updated_by, updated_at, deleted_by, deleted_at, is_deleted`

// Create creates a new transaction
func (r *TransactionRepository) Create(t *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	projectValue, err := decimalToPgNumeric(t.ProjectValue)
	if err != nil {
		return nil, fmt.Errorf("invalid project value: %w", err)
	}
	downPayment, err := decimalToPgNumeric(t.DownPayment)
	if err != nil {
		return nil, fmt.Errorf("invalid down payment: %w", err)
	}
	remaining, err := decimalToPgNumeric(t.Remaining)
	if err != nil {
		return nil, fmt.Errorf("invalid remaining amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (name, client_name, project_value, payment_status,
			down_payment, remaining, date, start_date, end_date, fund, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+transactionColumns,
		t.Name, stringPtrToPgText(t.ClientName), projectValue, string(t.PaymentStatus),
		downPayment, remaining, timeToPgDate(t.Date), timePtrToPgDate(t.StartDate),
		timePtrToPgDate(t.EndDate), string(t.Fund), t.CreatedBy,
	)
	return scanTransaction(row)
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

// List retrieves transactions matching the filters, newest accrual first
func (r *TransactionRepository) List(filters *domain.RecordFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()
	start, end, fund, includeArchived := resolveFilters(filters)

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE ($1::date IS NULL OR date >= $1)
		  AND ($2::date IS NULL OR date <= $2)
		  AND ($3::text IS NULL OR fund = $3)
		  AND ($4::boolean OR NOT is_deleted)
		ORDER BY date DESC, id DESC`,
		start, end, fund, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Update updates the descriptive fields of a transaction
func (r *TransactionRepository) Update(t *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET name = $2, client_name = $3, date = $4, start_date = $5, end_date = $6,
			updated_by = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+transactionColumns,
		t.ID, t.Name, stringPtrToPgText(t.ClientName), timeToPgDate(t.Date),
		timePtrToPgDate(t.StartDate), timePtrToPgDate(t.EndDate),
		stringPtrToPgText(t.UpdatedBy),
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// UpdatePayment writes a full payment machine state in one statement
func (r *TransactionRepository) UpdatePayment(id int32, state domain.PaymentState, actor string) (*domain.Transaction, error) {
	ctx := context.Background()
	downPayment, err := decimalToPgNumeric(state.DownPayment)
	if err != nil {
		return nil, fmt.Errorf("invalid down payment: %w", err)
	}
	remaining, err := decimalToPgNumeric(state.Remaining)
	if err != nil {
		return nil, fmt.Errorf("invalid remaining amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET payment_status = $2, down_payment = $3, remaining = $4,
			updated_by = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+transactionColumns,
		id, string(state.Status), downPayment, remaining, actor,
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// UpdateLifecycle writes the archive trail of a transaction
func (r *TransactionRepository) UpdateLifecycle(id int32, audit domain.AuditFields) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET is_deleted = $2, deleted_by = $3, deleted_at = $4,
			updated_by = $5, updated_at = $6
		WHERE id = $1
		RETURNING `+transactionColumns,
		id, audit.IsDeleted, stringPtrToPgText(audit.DeletedBy),
		timePtrToPgTimestamptz(audit.DeletedAt), stringPtrToPgText(audit.UpdatedBy),
		audit.UpdatedAt,
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var clientName pgtype.Text
	var projectValue, downPayment, remaining pgtype.Numeric
	var paymentStatus, fund string
	var date, startDate, endDate pgtype.Date
	var updatedBy, deletedBy pgtype.Text
	var deletedAt pgtype.Timestamptz

	err := row.Scan(
		&t.ID, &t.Name, &clientName, &projectValue, &paymentStatus,
		&downPayment, &remaining, &date, &startDate, &endDate, &fund,
		&t.CreatedBy, &t.CreatedAt, &updatedBy, &t.UpdatedAt,
		&deletedBy, &deletedAt, &t.IsDeleted,
	)
	if err != nil {
		return nil, err
	}

	t.ClientName = pgTextToStringPtr(clientName)
	t.ProjectValue = pgNumericToDecimal(projectValue)
	t.PaymentStatus = domain.PaymentStatus(paymentStatus)
	t.DownPayment = pgNumericToDecimal(downPayment)
	t.Remaining = pgNumericToDecimal(remaining)
	t.Date = pgDateToTime(date)
	t.StartDate = pgDateToTimePtr(startDate)
	t.EndDate = pgDateToTimePtr(endDate)
	t.Fund = domain.FundType(fund)
	t.UpdatedBy = pgTextToStringPtr(updatedBy)
	t.DeletedBy = pgTextToStringPtr(deletedBy)
	t.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &t, nil
}

// resolveFilters flattens a RecordFilters into nullable query parameters.
func resolveFilters(filters *domain.RecordFilters) (pgtype.Date, pgtype.Date, pgtype.Text, bool) {
	start, end := filters.Resolve()
	var fund pgtype.Text
	if filters != nil && filters.Fund != nil {
		fund = pgtype.Text{String: string(*filters.Fund), Valid: true}
	}
	includeArchived := filters != nil && filters.IncludeArchived
	return timePtrToPgDate(start), timePtrToPgDate(end), fund, includeArchived
}
