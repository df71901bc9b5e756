package handler

import (
	"errors"
	"net/http"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/gilangpr/kasku/kasku-backend/internal/service"
	"github.com/gilangpr/kasku/kasku-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// FundHandler handles fund balance HTTP requests
type FundHandler struct {
	ledgerService *service.LedgerService
}

// NewFundHandler creates a new FundHandler
func NewFundHandler(ledgerService *service.LedgerService) *FundHandler {
	return &FundHandler{ledgerService: ledgerService}
}

// FundBalanceResponse represents a fund position in API responses
type FundBalanceResponse struct {
	Fund             string `json:"fund"`
	CurrentBalance   string `json:"currentBalance"`
	FormattedBalance string `json:"formattedBalance"`
	Overdrawn        bool   `json:"overdrawn"`
	UpdatedAt        string `json:"updatedAt"`
}

// GetBalances handles GET /api/v1/funds
func (h *FundHandler) GetBalances(c echo.Context) error {
	balances, err := h.ledgerService.Balances()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get fund balances")
		return NewInternalError(c, "Failed to get fund balances")
	}

	result := make([]FundBalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = toFundBalanceResponse(b)
	}
	return c.JSON(http.StatusOK, result)
}

// GetBalance handles GET /api/v1/funds/:fund
func (h *FundHandler) GetBalance(c echo.Context) error {
	fund, err := domain.ParseFundType(c.Param("fund"))
	if err != nil {
		return NewValidationError(c, "Unknown fund", []ValidationError{
			{Field: "fund", Message: "Fund must be one of: petty_cash, profit_bank"},
		})
	}

	balance, err := h.ledgerService.GetBalance(fund)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownFund) {
			return NewNotFoundError(c, "Fund not found")
		}
		log.Error().Err(err).Str("fund", string(fund)).Msg("Failed to get fund balance")
		return NewInternalError(c, "Failed to get fund balance")
	}

	return c.JSON(http.StatusOK, toFundBalanceResponse(balance))
}

func toFundBalanceResponse(b *domain.FundBalance) FundBalanceResponse {
	return FundBalanceResponse{
		Fund:             string(b.Fund),
		CurrentBalance:   b.CurrentBalance.String(),
		FormattedBalance: util.FormatIDR(b.CurrentBalance),
		Overdrawn:        b.Overdrawn,
		UpdatedAt:        b.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
