package postgres

import (
	"context"
	"fmt"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// FundRepository implements domain.FundRepository using PostgreSQL. The
// posting journal carries a unique (fund, reference_id) index, which is what
// makes PostDelta idempotent under replays.
type FundRepository struct {
	pool *pgxpool.Pool
}

// NewFundRepository creates a new FundRepository
func NewFundRepository(pool *pgxpool.Pool) *FundRepository {
	return &FundRepository{pool: pool}
}

// PostDelta journals the delta and applies it to the fund balance in one
// transaction. The journal insert hits the unique index first, so a replay
// rolls back before the balance is touched.
func (r *FundRepository) PostDelta(fund domain.FundType, delta decimal.Decimal, referenceID string) (*domain.FundBalance, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(delta)
	if err != nil {
		return nil, fmt.Errorf("invalid delta: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO fund_postings (fund, amount, reference_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (fund, reference_id) DO NOTHING`,
		string(fund), amount, referenceID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrDuplicatePosting
	}

	var balance pgtype.Numeric
	var updatedAt pgtype.Timestamptz
	err = tx.QueryRow(ctx, `
		UPDATE fund_balances
		SET current_balance = current_balance + $1, updated_at = now()
		WHERE fund = $2
		RETURNING current_balance, updated_at`,
		amount, string(fund),
	).Scan(&balance, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUnknownFund
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.FundBalance{
		Fund:           fund,
		CurrentBalance: pgNumericToDecimal(balance),
		UpdatedAt:      updatedAt.Time,
	}, nil
}

// GetPosting retrieves a journaled posting by its reference id.
func (r *FundRepository) GetPosting(fund domain.FundType, referenceID string) (*domain.FundPosting, error) {
	ctx := context.Background()

	posting := &domain.FundPosting{Fund: fund, ReferenceID: referenceID}
	var amount pgtype.Numeric
	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `
		SELECT id, amount, created_at
		FROM fund_postings
		WHERE fund = $1 AND reference_id = $2`,
		string(fund), referenceID,
	).Scan(&posting.ID, &amount, &createdAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	posting.Amount = pgNumericToDecimal(amount)
	posting.CreatedAt = createdAt.Time
	return posting, nil
}

// GetBalance retrieves the current position of one fund.
func (r *FundRepository) GetBalance(fund domain.FundType) (*domain.FundBalance, error) {
	ctx := context.Background()

	var balance pgtype.Numeric
	var updatedAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `
		SELECT current_balance, updated_at
		FROM fund_balances
		WHERE fund = $1`,
		string(fund),
	).Scan(&balance, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUnknownFund
		}
		return nil, err
	}
	return &domain.FundBalance{
		Fund:           fund,
		CurrentBalance: pgNumericToDecimal(balance),
		UpdatedAt:      updatedAt.Time,
	}, nil
}

// ListBalances retrieves the positions of every fund.
func (r *FundRepository) ListBalances() ([]*domain.FundBalance, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT fund, current_balance, updated_at
		FROM fund_balances
		ORDER BY fund`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.FundBalance, 0)
	for rows.Next() {
		var fund string
		var balance pgtype.Numeric
		var updatedAt pgtype.Timestamptz
		if err := rows.Scan(&fund, &balance, &updatedAt); err != nil {
			return nil, err
		}
		result = append(result, &domain.FundBalance{
			Fund:           domain.FundType(fund),
			CurrentBalance: pgNumericToDecimal(balance),
			UpdatedAt:      updatedAt.Time,
		})
	}
	return result, rows.Err()
}
