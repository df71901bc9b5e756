package postgres

import (
	"context"
	"fmt"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, name, category, amount, date, transaction_id, item_id, fund,
	reference_id, created_by, created_at, updated_by, updated_at, deleted_by, deleted_at, is_deleted`

// Create creates a new expense
func (r *ExpenseRepository) Create(e *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(e.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (name, category, amount, date, transaction_id, item_id, fund, reference_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+expenseColumns,
		e.Name, e.Category, amount, timeToPgDate(e.Date),
		int32PtrToPgInt4(e.TransactionID), int32PtrToPgInt4(e.ItemID),
		string(e.Fund), e.ReferenceID, e.CreatedBy,
	)
	return scanExpense(row)
}

// GetByReference retrieves an expense by its idempotency reference
func (r *ExpenseRepository) GetByReference(referenceID string) (*domain.Expense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE reference_id = $1`, referenceID)
	e, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an expense by its ID
func (r *ExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE id = $1`, id)
	e, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return e, nil
}

// List retrieves expenses matching the filters, newest first
func (r *ExpenseRepository) List(filters *domain.RecordFilters) ([]*domain.Expense, error) {
	ctx := context.Background()
	start, end, fund, includeArchived := resolveFilters(filters)

	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
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

	result := make([]*domain.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// UpdateLifecycle writes the archive trail of an expense
func (r *ExpenseRepository) UpdateLifecycle(id int32, audit domain.AuditFields) (*domain.Expense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET is_deleted = $2, deleted_by = $3, deleted_at = $4,
			updated_by = $5, updated_at = $6
		WHERE id = $1
		RETURNING `+expenseColumns,
		id, audit.IsDeleted, stringPtrToPgText(audit.DeletedBy),
		timePtrToPgTimestamptz(audit.DeletedAt), stringPtrToPgText(audit.UpdatedBy),
		audit.UpdatedAt,
	)
	updated, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var amount pgtype.Numeric
	var date pgtype.Date
	var transactionID, itemID pgtype.Int4
	var fund string
	var updatedBy, deletedBy pgtype.Text
	var deletedAt pgtype.Timestamptz

	err := row.Scan(
		&e.ID, &e.Name, &e.Category, &amount, &date, &transactionID, &itemID, &fund,
		&e.ReferenceID, &e.CreatedBy, &e.CreatedAt, &updatedBy, &e.UpdatedAt,
		&deletedBy, &deletedAt, &e.IsDeleted,
	)
	if err != nil {
		return nil, err
	}

	e.Amount = pgNumericToDecimal(amount)
	e.Date = pgDateToTime(date)
	e.TransactionID = pgInt4ToInt32Ptr(transactionID)
	e.ItemID = pgInt4ToInt32Ptr(itemID)
	e.Fund = domain.FundType(fund)
	e.UpdatedBy = pgTextToStringPtr(updatedBy)
	e.DeletedBy = pgTextToStringPtr(deletedBy)
	e.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &e, nil
}
