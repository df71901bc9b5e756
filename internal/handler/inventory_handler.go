package handler

import (
	"errors"
	"net/http"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/gilangpr/kasku/kasku-backend/internal/middleware"
	"github.com/gilangpr/kasku/kasku-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InventoryHandler handles inventory item HTTP requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
	paymentService   *service.PaymentService
	lifecycleService *service.LifecycleService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *service.InventoryService, paymentService *service.PaymentService, lifecycleService *service.LifecycleService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		paymentService:   paymentService,
		lifecycleService: lifecycleService,
	}
}

// CreateItemRequest represents the create inventory item request body
type CreateItemRequest struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Quantity     int32   `json:"quantity,omitempty"`
	MinimumStock int32   `json:"minimumStock,omitempty"`
	UnitPrice    string  `json:"unitPrice,omitempty"`
	Cost         string  `json:"cost,omitempty"`
	PurchaseDate *string `json:"purchaseDate,omitempty"`
	FundType     string  `json:"fundType"`
	IsRecurring  bool    `json:"isRecurring,omitempty"`
	Cadence      *string `json:"recurringType,omitempty"`
	ReminderDays int32   `json:"reminderDays,omitempty"`
	AutoRenew    bool    `json:"autoRenew,omitempty"`
}

// AdjustmentRequest represents a quantity adjustment request body
type AdjustmentRequest struct {
	AdjustmentType string  `json:"adjustmentType"`
	Quantity       int32   `json:"quantity"`
	Reason         string  `json:"reason"`
	Note           *string `json:"note,omitempty"`
}

// AdjustmentResponse pairs the updated item with the ledger entry it produced
type AdjustmentResponse struct {
	Item       *domain.InventoryItem       `json:"item"`
	Adjustment *domain.InventoryAdjustment `json:"adjustment"`
}

// CreateItem handles POST /api/v1/inventory
func (h *InventoryHandler) CreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	unitPrice := decimal.Zero
	if req.UnitPrice != "" {
		var err error
		unitPrice, err = decimal.NewFromString(req.UnitPrice)
		if err != nil {
			return NewValidationError(c, "Invalid unit price", []ValidationError{
				{Field: "unitPrice", Message: "Must be a valid decimal number"},
			})
		}
	}
	cost := decimal.Zero
	if req.Cost != "" {
		var err error
		cost, err = decimal.NewFromString(req.Cost)
		if err != nil {
			return NewValidationError(c, "Invalid cost", []ValidationError{
				{Field: "cost", Message: "Must be a valid decimal number"},
			})
		}
	}

	purchaseDate, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		return NewValidationError(c, "Invalid purchase date", []ValidationError{
			{Field: "purchaseDate", Message: "Must be YYYY-MM-DD"},
		})
	}

	var cadence *domain.Cadence
	if req.Cadence != nil {
		parsed, err := domain.ParseCadence(*req.Cadence)
		if err != nil {
			return NewValidationError(c, "Invalid recurring type", []ValidationError{
				{Field: "recurringType", Message: "Must be one of: monthly, quarterly, annually"},
			})
		}
		cadence = &parsed
	}

	input := service.CreateItemInput{
		Name:         req.Name,
		Type:         domain.ItemType(req.Type),
		Quantity:     req.Quantity,
		MinimumStock: req.MinimumStock,
		UnitPrice:    unitPrice,
		Cost:         cost,
		PurchaseDate: purchaseDate,
		Fund:         domain.FundType(req.FundType),
		IsRecurring:  req.IsRecurring,
		Cadence:      cadence,
		ReminderDays: req.ReminderDays,
		AutoRenew:    req.AutoRenew,
		Actor:        middleware.GetActor(c),
	}

	item, err := h.inventoryService.CreateItem(input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidItemType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Type must be one of: equipment, subscription, other"},
			})
		}
		if errors.Is(err, domain.ErrInvalidCadence) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "recurringType", Message: "Recurring subscriptions require a billing cadence"},
			})
		}
		if mapped := mapValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Msg("Failed to create inventory item")
		return NewInternalError(c, "Failed to create inventory item")
	}

	log.Info().Int32("item_id", item.ID).Str("name", item.Name).Str("type", string(item.Type)).Msg("Inventory item created")

	return c.JSON(http.StatusCreated, item)
}

// GetItems handles GET /api/v1/inventory
func (h *InventoryHandler) GetItems(c echo.Context) error {
	filters, err := filtersFromQuery(c)
	if err != nil {
		return NewValidationError(c, "Invalid filters", nil)
	}

	items, err := h.inventoryService.ListItems(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			return NewValidationError(c, "Date range and year/month selector are mutually exclusive and must be well-formed", nil)
		}
		log.Error().Err(err).Msg("Failed to list inventory items")
		return NewInternalError(c, "Failed to list inventory items")
	}

	return c.JSON(http.StatusOK, items)
}

// GetItem handles GET /api/v1/inventory/:id
func (h *InventoryHandler) GetItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	item, err := h.inventoryService.GetItem(id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return NewNotFoundError(c, "Inventory item not found")
		}
		log.Error().Err(err).Int32("item_id", id).Msg("Failed to get inventory item")
		return NewInternalError(c, "Failed to get inventory item")
	}

	return c.JSON(http.StatusOK, item)
}

// AdjustItem handles POST /api/v1/inventory/:id/adjustments
func (h *InventoryHandler) AdjustItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	var req AdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	reason, err := domain.ParseAdjustmentReason(req.Reason)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "reason", Message: "Reason must be one of: purchase, sales, damaged, returned, correction, other"},
		})
	}

	item, adjustment, err := h.inventoryService.Adjust(id, service.AdjustInput{
		Direction: domain.AdjustmentDirection(req.AdjustmentType),
		Quantity:  req.Quantity,
		Reason:    reason,
		Note:      req.Note,
		Actor:     middleware.GetActor(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return NewNotFoundError(c, "Inventory item not found")
		}
		if errors.Is(err, domain.ErrInsufficientQuantity) {
			return NewValidationError(c, "Decrease exceeds the current quantity", []ValidationError{
				{Field: "quantity", Message: "Cannot decrease below zero"},
			})
		}
		if errors.Is(err, domain.ErrInvalidItemType) {
			return NewValidationError(c, "Subscriptions have no quantity to adjust", nil)
		}
		if mapped := mapValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("item_id", id).Msg("Failed to adjust inventory item")
		return NewInternalError(c, "Failed to adjust inventory item")
	}

	log.Info().
		Int32("item_id", id).
		Str("direction", string(adjustment.Direction)).
		Int32("quantity", adjustment.Quantity).
		Int32("new_quantity", adjustment.NewQuantity).
		Msg("Inventory adjusted")

	return c.JSON(http.StatusOK, AdjustmentResponse{Item: item, Adjustment: adjustment})
}

// GetAdjustments handles GET /api/v1/inventory/:id/adjustments
func (h *InventoryHandler) GetAdjustments(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	adjustments, err := h.inventoryService.AdjustmentHistory(id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return NewNotFoundError(c, "Inventory item not found")
		}
		log.Error().Err(err).Int32("item_id", id).Msg("Failed to list adjustments")
		return NewInternalError(c, "Failed to list adjustments")
	}

	return c.JSON(http.StatusOK, adjustments)
}

// PayItem handles POST /api/v1/inventory/:id/payments
func (h *InventoryHandler) PayItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	item, err := h.paymentService.PayInventoryItem(id, service.PaymentInput{
		Amount:      amount,
		ReferenceID: req.ReferenceID,
		Actor:       middleware.GetActor(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return NewNotFoundError(c, "Inventory item not found")
		}
		if errors.Is(err, domain.ErrInvalidPayment) {
			return NewValidationError(c, "Payment amount not valid for the current payment status", nil)
		}
		if errors.Is(err, domain.ErrDuplicatePosting) {
			return NewConflictError(c, "A different payment was already posted under this reference")
		}
		if mapped := mapValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("item_id", id).Msg("Failed to process item payment")
		return NewInternalError(c, "Failed to process item payment")
	}

	return c.JSON(http.StatusOK, item)
}

// GetLowStockItems handles GET /api/v1/inventory/low-stock
func (h *InventoryHandler) GetLowStockItems(c echo.Context) error {
	items, err := h.inventoryService.LowStockItems()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list low stock items")
		return NewInternalError(c, "Failed to list low stock items")
	}

	return c.JSON(http.StatusOK, items)
}

// ArchiveItem handles DELETE /api/v1/inventory/:id
func (h *InventoryHandler) ArchiveItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	item, err := h.lifecycleService.ArchiveItem(id, middleware.GetActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return NewNotFoundError(c, "Inventory item not found")
		}
		if errors.Is(err, domain.ErrAlreadyArchived) {
			return NewConflictError(c, "Inventory item is already archived")
		}
		log.Error().Err(err).Int32("item_id", id).Msg("Failed to archive inventory item")
		return NewInternalError(c, "Failed to archive inventory item")
	}

	log.Info().Int32("item_id", id).Msg("Inventory item archived")

	return c.JSON(http.StatusOK, item)
}

// RestoreItem handles POST /api/v1/inventory/:id/restore
func (h *InventoryHandler) RestoreItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid item ID", nil)
	}

	item, err := h.lifecycleService.RestoreItem(id, middleware.GetActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return NewNotFoundError(c, "Inventory item not found")
		}
		if errors.Is(err, domain.ErrNotArchived) {
			return NewConflictError(c, "Inventory item is not archived")
		}
		log.Error().Err(err).Int32("item_id", id).Msg("Failed to restore inventory item")
		return NewInternalError(c, "Failed to restore inventory item")
	}

	log.Info().Int32("item_id", id).Msg("Inventory item restored")

	return c.JSON(http.StatusOK, item)
}
