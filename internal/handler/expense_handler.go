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

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService   *service.ExpenseService
	lifecycleService *service.LifecycleService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, lifecycleService *service.LifecycleService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService:   expenseService,
		lifecycleService: lifecycleService,
	}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category,omitempty"`
	Amount        string  `json:"amount"`
	Date          *string `json:"date,omitempty"`
	TransactionID *int32  `json:"transactionId,omitempty"`
	ItemID        *int32  `json:"inventoryItemId,omitempty"`
	FundType      string  `json:"fundType"`
	ReferenceID   string  `json:"referenceId"`
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	date, err := parseDatePtr(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be YYYY-MM-DD"},
		})
	}

	input := service.CreateExpenseInput{
		Name:          req.Name,
		Category:      req.Category,
		Amount:        amount,
		Date:          date,
		TransactionID: req.TransactionID,
		ItemID:        req.ItemID,
		Fund:          domain.FundType(req.FundType),
		ReferenceID:   req.ReferenceID,
		Actor:         middleware.GetActor(c),
	}

	expense, err := h.expenseService.CreateExpense(input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewValidationError(c, "Linked transaction does not exist", []ValidationError{
				{Field: "transactionId", Message: "Transaction not found"},
			})
		}
		if errors.Is(err, domain.ErrItemNotFound) {
			return NewValidationError(c, "Linked inventory item does not exist", []ValidationError{
				{Field: "inventoryItemId", Message: "Inventory item not found"},
			})
		}
		if errors.Is(err, domain.ErrDuplicatePosting) {
			return NewConflictError(c, "Reference already used with a different amount")
		}
		if mapped := mapValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	log.Info().
		Int32("expense_id", expense.ID).
		Str("amount", expense.Amount.String()).
		Str("fund", string(expense.Fund)).
		Msg("Expense created")

	return c.JSON(http.StatusCreated, expense)
}

// GetExpenses handles GET /api/v1/expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	filters, err := filtersFromQuery(c)
	if err != nil {
		return NewValidationError(c, "Invalid filters", nil)
	}

	expenses, err := h.expenseService.ListExpenses(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			return NewValidationError(c, "Date range and year/month selector are mutually exclusive and must be well-formed", nil)
		}
		log.Error().Err(err).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	return c.JSON(http.StatusOK, expenses)
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpense(id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to get expense")
		return NewInternalError(c, "Failed to get expense")
	}

	return c.JSON(http.StatusOK, expense)
}

// ArchiveExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) ArchiveExpense(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.lifecycleService.ArchiveExpense(id, middleware.GetActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrAlreadyArchived) {
			return NewConflictError(c, "Expense is already archived")
		}
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to archive expense")
		return NewInternalError(c, "Failed to archive expense")
	}

	log.Info().Int32("expense_id", id).Msg("Expense archived")

	return c.JSON(http.StatusOK, expense)
}

// RestoreExpense handles POST /api/v1/expenses/:id/restore
func (h *ExpenseHandler) RestoreExpense(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.lifecycleService.RestoreExpense(id, middleware.GetActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrNotArchived) {
			return NewConflictError(c, "Expense is not archived")
		}
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to restore expense")
		return NewInternalError(c, "Failed to restore expense")
	}

	log.Info().Int32("expense_id", id).Msg("Expense restored")

	return c.JSON(http.StatusOK, expense)
}
