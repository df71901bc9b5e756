package handler

import (
	"net/http"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BillingHandler handles subscription billing HTTP requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// GetReminders handles GET /api/v1/subscriptions/reminders
func (h *BillingHandler) GetReminders(c echo.Context) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if v := c.QueryParam("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be YYYY-MM-DD"},
			})
		}
		today = parsed
	}

	reminders, err := h.billingService.DueReminders(today)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute reminders")
		return NewInternalError(c, "Failed to compute reminders")
	}

	return c.JSON(http.StatusOK, reminders)
}
