package service

import (
	"strings"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryService handles equipment/subscription items and their
// append-only quantity ledger.
type InventoryService struct {
	inventoryRepo  domain.InventoryRepository
	adjustmentRepo domain.AdjustmentRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(inventoryRepo domain.InventoryRepository, adjustmentRepo domain.AdjustmentRepository) *InventoryService {
	return &InventoryService{
		inventoryRepo:  inventoryRepo,
		adjustmentRepo: adjustmentRepo,
	}
}

// CreateItemInput holds the input for creating an inventory item
type CreateItemInput struct {
	Name         string
	Type         domain.ItemType
	Quantity     int32
	MinimumStock int32
	UnitPrice    decimal.Decimal
	Cost         decimal.Decimal
	PurchaseDate *time.Time
	Fund         domain.FundType
	IsRecurring  bool
	Cadence      *domain.Cadence
	ReminderDays int32
	AutoRenew    bool
	Actor        string
}

// CreateItem creates an inventory item with validation. Subscriptions have
// no quantity semantics; their recurrence fields are required instead and
// the next billing date is derived from the purchase date anchor.
func (s *InventoryService) CreateItem(input CreateItemInput) (*domain.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if strings.TrimSpace(input.Actor) == "" {
		return nil, domain.ErrActorRequired
	}

	if _, err := domain.ParseItemType(string(input.Type)); err != nil {
		return nil, err
	}
	if _, err := domain.ParseFundType(string(input.Fund)); err != nil {
		return nil, err
	}
	if input.Cost.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	purchaseDate := time.Now().UTC().Truncate(24 * time.Hour)
	if input.PurchaseDate != nil {
		purchaseDate = *input.PurchaseDate
	}

	state, err := domain.NewUnpaidState(input.Cost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &domain.InventoryItem{
		Name:          name,
		Type:          input.Type,
		Cost:          input.Cost,
		PaymentStatus: state.Status,
		DownPayment:   state.DownPayment,
		Remaining:     state.Remaining,
		PurchaseDate:  purchaseDate,
		Fund:          input.Fund,
		ReminderDays:  input.ReminderDays,
		AutoRenew:     input.AutoRenew,
		AuditFields: domain.AuditFields{
			CreatedBy: input.Actor,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if input.Type == domain.ItemSubscription {
		if input.IsRecurring {
			if input.Cadence == nil {
				return nil, domain.ErrInvalidCadence
			}
			if _, err := domain.ParseCadence(string(*input.Cadence)); err != nil {
				return nil, err
			}
			if input.ReminderDays < 0 {
				return nil, domain.ErrInvalidInput
			}
			item.IsRecurring = true
			item.Cadence = input.Cadence
			next := domain.NextBillingDate(purchaseDate, *input.Cadence, purchaseDate)
			item.NextBillingDate = &next
		}
		// Subscriptions value at cost, never quantity x unit price.
		item.TotalValue = input.Cost
	} else {
		if input.Quantity < 0 || input.MinimumStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		if input.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		item.Quantity = input.Quantity
		item.MinimumStock = input.MinimumStock
		item.UnitPrice = input.UnitPrice
		item.TotalValue = input.UnitPrice.Mul(decimal.NewFromInt32(input.Quantity))
	}

	return s.inventoryRepo.Create(item)
}

// GetItem retrieves an inventory item by ID
func (s *InventoryService) GetItem(id int32) (*domain.InventoryItem, error) {
	return s.inventoryRepo.GetByID(id)
}

// ListItems retrieves inventory items with optional filters
func (s *InventoryService) ListItems(filters *domain.RecordFilters) ([]*domain.InventoryItem, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	return s.inventoryRepo.List(filters)
}

// AdjustInput holds one quantity adjustment
type AdjustInput struct {
	Direction domain.AdjustmentDirection
	Quantity  int32
	Reason    domain.AdjustmentReason
	Note      *string
	Actor     string
}

// Adjust applies a quantity change to a physical item and appends the
// immutable ledger entry with before/after snapshots. Decreases beyond the
// current quantity are rejected before anything is written.
func (s *InventoryService) Adjust(itemID int32, input AdjustInput) (*domain.InventoryItem, *domain.InventoryAdjustment, error) {
	if input.Quantity <= 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	if input.Direction != domain.AdjustmentIncrease && input.Direction != domain.AdjustmentDecrease {
		return nil, nil, domain.ErrInvalidInput
	}
	if _, err := domain.ParseAdjustmentReason(string(input.Reason)); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(input.Actor) == "" {
		return nil, nil, domain.ErrActorRequired
	}
	if input.Note != nil && len(*input.Note) > domain.MaxNoteLength {
		return nil, nil, domain.ErrInvalidInput
	}

	item, err := s.inventoryRepo.GetByID(itemID)
	if err != nil {
		return nil, nil, err
	}
	if item.Type == domain.ItemSubscription {
		return nil, nil, domain.ErrInvalidItemType
	}

	previous := item.Quantity
	var next int32
	if input.Direction == domain.AdjustmentIncrease {
		next = previous + input.Quantity
	} else {
		if input.Quantity > previous {
			return nil, nil, domain.ErrInsufficientQuantity
		}
		next = previous - input.Quantity
	}

	adjustment := &domain.InventoryAdjustment{
		ID:               uuid.New(),
		ItemID:           itemID,
		Direction:        input.Direction,
		Quantity:         input.Quantity,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           input.Reason,
		Note:             input.Note,
		Actor:            input.Actor,
		CreatedAt:        time.Now().UTC(),
	}

	totalValue := item.UnitPrice.Mul(decimal.NewFromInt32(next))
	return s.adjustmentRepo.Apply(adjustment, totalValue)
}

// AdjustmentHistory returns the full quantity ledger for an item.
func (s *InventoryService) AdjustmentHistory(itemID int32) ([]*domain.InventoryAdjustment, error) {
	if _, err := s.inventoryRepo.GetByID(itemID); err != nil {
		return nil, err
	}
	return s.adjustmentRepo.ListByItem(itemID)
}

// LowStockItems returns active physical items at or below minimum stock.
func (s *InventoryService) LowStockItems() ([]*domain.InventoryItem, error) {
	items, err := s.inventoryRepo.List(&domain.RecordFilters{})
	if err != nil {
		return nil, err
	}
	low := make([]*domain.InventoryItem, 0)
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}
