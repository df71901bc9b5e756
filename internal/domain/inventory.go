package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemType string

const (
	ItemEquipment    ItemType = "equipment"
	ItemSubscription ItemType = "subscription"
	ItemOther        ItemType = "other"
)

// ParseItemType validates an inventory item type token.
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemEquipment, ItemSubscription, ItemOther:
		return ItemType(s), nil
	}
	return "", ErrInvalidItemType
}

// InventoryItem is a piece of equipment, a subscription or other studio
// property. Quantity and MinimumStock only apply to physical items;
// subscriptions carry the recurrence fields instead and use Cost as the
// obligation total for the payment machine.
type InventoryItem struct {
	ID            int32           `json:"id"`
	Name          string          `json:"name"`
	Type          ItemType        `json:"type"`
	Quantity      int32           `json:"quantity"`
	MinimumStock  int32           `json:"minimumStock"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	Cost          decimal.Decimal `json:"cost"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	DownPayment   decimal.Decimal `json:"downPaymentAmount"`
	Remaining     decimal.Decimal `json:"remainingAmount"`
	PurchaseDate  time.Time       `json:"purchaseDate"`
	Fund          FundType        `json:"fundType"`

	// Subscription recurrence. PurchaseDate is the billing anchor.
	IsRecurring     bool       `json:"isRecurring"`
	Cadence         *Cadence   `json:"recurringType,omitempty"`
	NextBillingDate *time.Time `json:"nextBillingDate,omitempty"`
	ReminderDays    int32      `json:"reminderDays"`
	AutoRenew       bool       `json:"autoRenew"`

	AuditFields
}

// PaymentState rebuilds the payment machine state, with Cost as the total.
func (i *InventoryItem) PaymentState() (PaymentState, error) {
	return NewPaymentState(i.PaymentStatus, i.Cost, i.DownPayment)
}

// IsLowStock reports whether a physical item is at or below its minimum.
func (i *InventoryItem) IsLowStock() bool {
	return i.Type != ItemSubscription && i.Quantity <= i.MinimumStock
}

type AdjustmentDirection string

const (
	AdjustmentIncrease AdjustmentDirection = "increase"
	AdjustmentDecrease AdjustmentDirection = "decrease"
)

type AdjustmentReason string

const (
	ReasonPurchase   AdjustmentReason = "purchase"
	ReasonSales      AdjustmentReason = "sales"
	ReasonDamaged    AdjustmentReason = "damaged"
	ReasonReturned   AdjustmentReason = "returned"
	ReasonCorrection AdjustmentReason = "correction"
	ReasonOther      AdjustmentReason = "other"
)

// ParseAdjustmentReason validates a reason code.
func ParseAdjustmentReason(s string) (AdjustmentReason, error) {
	switch AdjustmentReason(s) {
	case ReasonPurchase, ReasonSales, ReasonDamaged, ReasonReturned, ReasonCorrection, ReasonOther:
		return AdjustmentReason(s), nil
	}
	return "", ErrInvalidReason
}

// InventoryAdjustment is one entry in the append-only quantity ledger.
// Entries are never mutated or deleted; the running sum of signed deltas is
// the source of truth for quantity history.
type InventoryAdjustment struct {
	ID               uuid.UUID           `json:"id"`
	ItemID           int32               `json:"itemId"`
	Direction        AdjustmentDirection `json:"adjustmentType"`
	Quantity         int32               `json:"quantity"` // positive delta magnitude
	PreviousQuantity int32               `json:"previousQuantity"`
	NewQuantity      int32               `json:"newQuantity"`
	Reason           AdjustmentReason    `json:"reason"`
	Note             *string             `json:"note,omitempty"`
	Actor            string              `json:"actor"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// SignedDelta is the quantity change this entry applied.
func (a *InventoryAdjustment) SignedDelta() int32 {
	if a.Direction == AdjustmentDecrease {
		return -a.Quantity
	}
	return a.Quantity
}

type InventoryRepository interface {
	Create(item *InventoryItem) (*InventoryItem, error)
	GetByID(id int32) (*InventoryItem, error)
	List(filters *RecordFilters) ([]*InventoryItem, error)
	UpdatePayment(id int32, state PaymentState, actor string) (*InventoryItem, error)
	UpdateNextBilling(id int32, next time.Time) error
	UpdateLifecycle(id int32, audit AuditFields) (*InventoryItem, error)
}

type AdjustmentRepository interface {
	// Apply journals an adjustment and writes its resulting quantity and
	// total value onto the item as one atomic operation, so the log and the
	// item can never disagree. The log itself is append-only; there are no
	// update or delete operations.
	Apply(adj *InventoryAdjustment, totalValue decimal.Decimal) (*InventoryItem, *InventoryAdjustment, error)
	ListByItem(itemID int32) ([]*InventoryAdjustment, error)
}
