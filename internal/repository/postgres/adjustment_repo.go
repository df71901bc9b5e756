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

// AdjustmentRepository implements domain.AdjustmentRepository using
// PostgreSQL. The table is append-only; corrections are compensating
// entries, never edits.
type AdjustmentRepository struct {
	pool *pgxpool.Pool
}

// NewAdjustmentRepository creates a new AdjustmentRepository
func NewAdjustmentRepository(pool *pgxpool.Pool) *AdjustmentRepository {
	return &AdjustmentRepository{pool: pool}
}

const adjustmentColumns = `id, item_id, direction, quantity, previous_quantity,
	new_quantity, reason, note, actor, created_at`

// Apply journals an inventory adjustment and moves the item to its new
// quantity in the same database transaction. A failure anywhere rolls both
// writes back, so the log never holds a delta the item row missed.
func (r *AdjustmentRepository) Apply(adj *domain.InventoryAdjustment, totalValue decimal.Decimal) (*domain.InventoryItem, *domain.InventoryAdjustment, error) {
	ctx := context.Background()
	value, err := decimalToPgNumeric(totalValue)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid total value: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO inventory_adjustments (id, item_id, direction, quantity,
			previous_quantity, new_quantity, reason, note, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+adjustmentColumns,
		adj.ID, adj.ItemID, string(adj.Direction), adj.Quantity,
		adj.PreviousQuantity, adj.NewQuantity, string(adj.Reason),
		stringPtrToPgText(adj.Note), adj.Actor,
	)
	appended, err := scanAdjustment(row)
	if err != nil {
		return nil, nil, err
	}

	row = tx.QueryRow(ctx, `
		UPDATE inventory_items
		SET quantity = $2, total_value = $3, updated_by = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns,
		adj.ItemID, adj.NewQuantity, value, adj.Actor,
	)
	item, err := scanItem(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, domain.ErrItemNotFound
		}
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return item, appended, nil
}

// ListByItem retrieves the adjustment history of one item, oldest first
func (r *AdjustmentRepository) ListByItem(itemID int32) ([]*domain.InventoryAdjustment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+adjustmentColumns+`
		FROM inventory_adjustments
		WHERE item_id = $1
		ORDER BY created_at, id`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.InventoryAdjustment, 0)
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, adj)
	}
	return result, rows.Err()
}

func scanAdjustment(row pgx.Row) (*domain.InventoryAdjustment, error) {
	var adj domain.InventoryAdjustment
	var direction, reason string
	var note pgtype.Text

	err := row.Scan(
		&adj.ID, &adj.ItemID, &direction, &adj.Quantity,
		&adj.PreviousQuantity, &adj.NewQuantity, &reason, &note,
		&adj.Actor, &adj.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	adj.Direction = domain.AdjustmentDirection(direction)
	adj.Reason = domain.AdjustmentReason(reason)
	adj.Note = pgTextToStringPtr(note)
	return &adj, nil
}
