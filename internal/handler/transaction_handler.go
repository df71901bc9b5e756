package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/gilangpr/kasku/kasku-backend/internal/middleware"
	"github.com/gilangpr/kasku/kasku-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles client transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	paymentService     *service.PaymentService
	lifecycleService   *service.LifecycleService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, paymentService *service.PaymentService, lifecycleService *service.LifecycleService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		paymentService:     paymentService,
		lifecycleService:   lifecycleService,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Name         string  `json:"name"`
	ClientName   *string `json:"clientName,omitempty"`
	ProjectValue string  `json:"projectValue"`
	Date         *string `json:"date,omitempty"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
	FundType     string  `json:"fundType"`
}

// UpdateTransactionRequest represents the update transaction request body
type UpdateTransactionRequest struct {
	Name       string  `json:"name"`
	ClientName *string `json:"clientName,omitempty"`
	Date       string  `json:"date"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
}

// PaymentRequest represents a payment submission body
type PaymentRequest struct {
	Amount      string `json:"amount"`
	ReferenceID string `json:"referenceId"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	projectValue, err := decimal.NewFromString(req.ProjectValue)
	if err != nil {
		return NewValidationError(c, "Invalid project value", []ValidationError{
			{Field: "projectValue", Message: "Must be a valid decimal number"},
		})
	}

	date, err := parseDatePtr(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be YYYY-MM-DD"},
		})
	}
	startDate, err := parseDatePtr(req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be YYYY-MM-DD"},
		})
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		return NewValidationError(c, "Invalid end date", []ValidationError{
			{Field: "endDate", Message: "Must be YYYY-MM-DD"},
		})
	}

	input := service.CreateTransactionInput{
		Name:         req.Name,
		ClientName:   req.ClientName,
		ProjectValue: projectValue,
		Date:         date,
		StartDate:    startDate,
		EndDate:      endDate,
		Fund:         domain.FundType(req.FundType),
		Actor:        middleware.GetActor(c),
	}

	transaction, err := h.transactionService.CreateTransaction(input)
	if err != nil {
		if mapped := mapValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Int32("transaction_id", transaction.ID).Str("name", transaction.Name).Msg("Transaction created")

	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	filters, err := filtersFromQuery(c)
	if err != nil {
		return NewValidationError(c, "Invalid filters", nil)
	}

	transactions, err := h.transactionService.ListTransactions(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			return NewValidationError(c, "Date range and year/month selector are mutually exclusive and must be well-formed", nil)
		}
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	return c.JSON(http.StatusOK, transactions)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be YYYY-MM-DD"},
		})
	}
	startDate, err := parseDatePtr(req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid start date", nil)
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		return NewValidationError(c, "Invalid end date", nil)
	}

	input := service.UpdateTransactionInput{
		Name:       req.Name,
		ClientName: req.ClientName,
		Date:       date,
		StartDate:  startDate,
		EndDate:    endDate,
		Actor:      middleware.GetActor(c),
	}

	transaction, err := h.transactionService.UpdateTransaction(id, input)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if mapped := mapValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, transaction)
}

// PayTransaction handles POST /api/v1/transactions/:id/payments
func (h *TransactionHandler) PayTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
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

	transaction, err := h.paymentService.PayTransaction(id, service.PaymentInput{
		Amount:      amount,
		ReferenceID: req.ReferenceID,
		Actor:       middleware.GetActor(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
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
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to process payment")
		return NewInternalError(c, "Failed to process payment")
	}

	log.Info().
		Int32("transaction_id", id).
		Str("amount", amount.String()).
		Str("status", string(transaction.PaymentStatus)).
		Msg("Payment processed")

	return c.JSON(http.StatusOK, transaction)
}

// OverridePaymentRequest represents an administrative payment state correction
type OverridePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
	DownPayment   string `json:"downPaymentAmount,omitempty"`
}

// OverridePayment handles PATCH /api/v1/transactions/:id/payment-status.
// This is the administrative correction path; it rewrites the payment state
// without moving money.
func (h *TransactionHandler) OverridePayment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req OverridePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	status, err := domain.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "paymentStatus", Message: "Status must be one of: belum_bayar, dp, lunas"},
		})
	}

	downPayment := decimal.Zero
	if req.DownPayment != "" {
		downPayment, err = decimal.NewFromString(req.DownPayment)
		if err != nil {
			return NewValidationError(c, "Invalid down payment", []ValidationError{
				{Field: "downPaymentAmount", Message: "Must be a valid decimal number"},
			})
		}
	}

	transaction, err := h.paymentService.OverrideTransactionPayment(id, status, downPayment, middleware.GetActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrInvalidPayment) {
			return NewValidationError(c, "Down payment not consistent with the requested status", nil)
		}
		if mapped := mapValidationError(c, err); mapped != nil {
			return mapped
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to override payment state")
		return NewInternalError(c, "Failed to override payment state")
	}

	log.Info().
		Int32("transaction_id", id).
		Str("status", string(transaction.PaymentStatus)).
		Msg("Payment state overridden")

	return c.JSON(http.StatusOK, transaction)
}

// ArchiveTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) ArchiveTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.lifecycleService.ArchiveTransaction(id, middleware.GetActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrAlreadyArchived) {
			return NewConflictError(c, "Transaction is already archived")
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to archive transaction")
		return NewInternalError(c, "Failed to archive transaction")
	}

	log.Info().Int32("transaction_id", id).Msg("Transaction archived")

	return c.JSON(http.StatusOK, transaction)
}

// RestoreTransaction handles POST /api/v1/transactions/:id/restore
func (h *TransactionHandler) RestoreTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.lifecycleService.RestoreTransaction(id, middleware.GetActor(c))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		if errors.Is(err, domain.ErrNotArchived) {
			return NewConflictError(c, "Transaction is not archived")
		}
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to restore transaction")
		return NewInternalError(c, "Failed to restore transaction")
	}

	log.Info().Int32("transaction_id", id).Msg("Transaction restored")

	return c.JSON(http.StatusOK, transaction)
}

// parseID extracts the :id path parameter
func parseID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

// parseDatePtr parses an optional YYYY-MM-DD string
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// filtersFromQuery builds RecordFilters from the shared list query params
func filtersFromQuery(c echo.Context) (*domain.RecordFilters, error) {
	filters := &domain.RecordFilters{
		IncludeArchived: c.QueryParam("includeArchived") == "true",
	}

	if v := c.QueryParam("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
		filters.StartDate = &t
	}
	if v := c.QueryParam("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
		filters.EndDate = &t
	}
	if v := c.QueryParam("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		filters.Year = &year
	}
	if v := c.QueryParam("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		filters.Month = &month
	}
	if v := c.QueryParam("fundType"); v != "" {
		fund, err := domain.ParseFundType(v)
		if err != nil {
			return nil, err
		}
		filters.Fund = &fund
	}
	return filters, nil
}

// mapValidationError translates shared validation sentinels to 400 responses.
// Returns nil when the error is not a validation failure.
func mapValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrActorRequired):
		return NewUnauthorizedError(c, "X-Actor header is required")
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrUnknownFund):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "fundType", Message: "Fund must be one of: petty_cash, profit_bank"},
		})
	case errors.Is(err, domain.ErrInvalidDate):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Dates must be well-formed and ordered"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Validation failed", nil)
	}
	return nil
}
