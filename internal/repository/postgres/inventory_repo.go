package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository implements domain.InventoryRepository using PostgreSQL
type InventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

const itemColumns = `id, name, item_type, quantity, minimum_stock, unit_price, total_value,
	cost, payment_status, down_payment, remaining, purchase_date, fund,
	is_recurring, cadence, next_billing_date, reminder_days, auto_renew,
	created_by, created_at, updated_by, updated_at, deleted_by, deleted_at, is_deleted`

// Create creates a new inventory item
func (r *InventoryRepository) Create(item *domain.InventoryItem) (*domain.InventoryItem, error) {
	ctx := context.Background()
	unitPrice, err := decimalToPgNumeric(item.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid unit price: %w", err)
	}
	totalValue, err := decimalToPgNumeric(item.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("invalid total value: %w", err)
	}
	cost, err := decimalToPgNumeric(item.Cost)
	if err != nil {
		return nil, fmt.Errorf("invalid cost: %w", err)
	}
	downPayment, err := decimalToPgNumeric(item.DownPayment)
	if err != nil {
		return nil, fmt.Errorf("invalid down payment: %w", err)
	}
	remaining, err := decimalToPgNumeric(item.Remaining)
	if err != nil {
		return nil, fmt.Errorf("invalid remaining amount: %w", err)
	}

	var cadence pgtype.Text
	if item.Cadence != nil {
		cadence = pgtype.Text{String: string(*item.Cadence), Valid: true}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (name, item_type, quantity, minimum_stock, unit_price,
			total_value, cost, payment_status, down_payment, remaining, purchase_date, fund,
			is_recurring, cadence, next_billing_date, reminder_days, auto_renew, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+itemColumns,
		item.Name, string(item.Type), item.Quantity, item.MinimumStock, unitPrice,
		totalValue, cost, string(item.PaymentStatus), downPayment, remaining,
		timeToPgDate(item.PurchaseDate), string(item.Fund),
		item.IsRecurring, cadence, timePtrToPgDate(item.NextBillingDate),
		item.ReminderDays, item.AutoRenew, item.CreatedBy,
	)
	return scanItem(row)
}

// GetByID retrieves an inventory item by its ID
func (r *InventoryRepository) GetByID(id int32) (*domain.InventoryItem, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		WHERE id = $1`, id)
	item, err := scanItem(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// List retrieves inventory items matching the filters
func (r *InventoryRepository) List(filters *domain.RecordFilters) ([]*domain.InventoryItem, error) {
	ctx := context.Background()
	start, end, fund, includeArchived := resolveFilters(filters)

	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		WHERE ($1::date IS NULL OR purchase_date >= $1)
		  AND ($2::date IS NULL OR purchase_date <= $2)
		  AND ($3::text IS NULL OR fund = $3)
		  AND ($4::boolean OR NOT is_deleted)
		ORDER BY id`,
		start, end, fund, includeArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// UpdatePayment writes a full payment machine state in one statement
func (r *InventoryRepository) UpdatePayment(id int32, state domain.PaymentState, actor string) (*domain.InventoryItem, error) {
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
		UPDATE inventory_items
		SET payment_status = $2, down_payment = $3, remaining = $4,
			updated_by = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns,
		id, string(state.Status), downPayment, remaining, actor,
	)
	item, err := scanItem(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// UpdateNextBilling stores the recomputed next billing date
func (r *InventoryRepository) UpdateNextBilling(id int32, next time.Time) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE inventory_items
		SET next_billing_date = $2, updated_at = now()
		WHERE id = $1`,
		id, timeToPgDate(next),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// UpdateLifecycle writes the archive trail of an inventory item
func (r *InventoryRepository) UpdateLifecycle(id int32, audit domain.AuditFields) (*domain.InventoryItem, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE inventory_items
		SET is_deleted = $2, deleted_by = $3, deleted_at = $4,
			updated_by = $5, updated_at = $6
		WHERE id = $1
		RETURNING `+itemColumns,
		id, audit.IsDeleted, stringPtrToPgText(audit.DeletedBy),
		timePtrToPgTimestamptz(audit.DeletedAt), stringPtrToPgText(audit.UpdatedBy),
		audit.UpdatedAt,
	)
	item, err := scanItem(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	var itemType, paymentStatus, fund string
	var unitPrice, totalValue, cost, downPayment, remaining pgtype.Numeric
	var purchaseDate, nextBilling pgtype.Date
	var cadence pgtype.Text
	var updatedBy, deletedBy pgtype.Text
	var deletedAt pgtype.Timestamptz

	err := row.Scan(
		&item.ID, &item.Name, &itemType, &item.Quantity, &item.MinimumStock,
		&unitPrice, &totalValue, &cost, &paymentStatus, &downPayment, &remaining,
		&purchaseDate, &fund, &item.IsRecurring, &cadence, &nextBilling,
		&item.ReminderDays, &item.AutoRenew,
		&item.CreatedBy, &item.CreatedAt, &updatedBy, &item.UpdatedAt,
		&deletedBy, &deletedAt, &item.IsDeleted,
	)
	if err != nil {
		return nil, err
	}

	item.Type = domain.ItemType(itemType)
	item.UnitPrice = pgNumericToDecimal(unitPrice)
	item.TotalValue = pgNumericToDecimal(totalValue)
	item.Cost = pgNumericToDecimal(cost)
	item.PaymentStatus = domain.PaymentStatus(paymentStatus)
	item.DownPayment = pgNumericToDecimal(downPayment)
	item.Remaining = pgNumericToDecimal(remaining)
	item.PurchaseDate = pgDateToTime(purchaseDate)
	item.Fund = domain.FundType(fund)
	if cadence.Valid {
		c := domain.Cadence(cadence.String)
		item.Cadence = &c
	}
	item.NextBillingDate = pgDateToTimePtr(nextBilling)
	item.UpdatedBy = pgTextToStringPtr(updatedBy)
	item.DeletedBy = pgTextToStringPtr(deletedBy)
	item.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &item, nil
}
