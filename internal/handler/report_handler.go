package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/gilangpr/kasku/kasku-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles monthly report HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetMonthlyReport handles GET /api/v1/reports/monthly
func (h *ReportHandler) GetMonthlyReport(c echo.Context) error {
	filters, err := filtersFromQuery(c)
	if err != nil {
		return NewValidationError(c, "Invalid filters", nil)
	}

	summary, err := h.reportService.MonthlyReport(filters)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			return NewValidationError(c, "Date range and year/month selector are mutually exclusive and must be well-formed", nil)
		}
		log.Error().Err(err).Msg("Failed to build monthly report")
		return NewInternalError(c, "Failed to build monthly report")
	}

	return c.JSON(http.StatusOK, summary)
}

// GetBucketBreakdown handles GET /api/v1/reports/monthly/:year/:month/breakdown
func (h *ReportHandler) GetBucketBreakdown(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return NewValidationError(c, "Invalid year", nil)
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Month must be between 1 and 12"},
		})
	}

	breakdown, err := h.reportService.BucketBreakdown(year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			return NewValidationError(c, "Invalid year/month", nil)
		}
		log.Error().Err(err).Int("year", year).Int("month", month).Msg("Failed to build bucket breakdown")
		return NewInternalError(c, "Failed to build bucket breakdown")
	}

	return c.JSON(http.StatusOK, breakdown)
}
