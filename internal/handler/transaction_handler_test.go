package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/gilangpr/kasku/kasku-backend/internal/middleware"
	"github.com/gilangpr/kasku/kasku-backend/internal/service"
	"github.com/gilangpr/kasku/kasku-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newTransactionHandler(txRepo *testutil.MockTransactionRepository, fundRepo *testutil.MockFundRepository) *TransactionHandler {
	invRepo := testutil.NewMockInventoryRepository()
	expRepo := testutil.NewMockExpenseRepository()
	ledger := service.NewLedgerService(fundRepo)
	return NewTransactionHandler(
		service.NewTransactionService(txRepo),
		service.NewPaymentService(txRepo, invRepo, ledger),
		service.NewLifecycleService(txRepo, expRepo, invRepo),
	)
}

func setActor(c echo.Context, actor string) {
	c.Set(string(middleware.ActorKey), actor)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Invalid decimal %q: %v", s, err)
	}
	return d
}

func TestCreateTransactionHandler(t *testing.T) {
	e := echo.New()
	txRepo := testutil.NewMockTransactionRepository()
	handler := newTransactionHandler(txRepo, testutil.NewMockFundRepository())

	reqBody := `{"name": "Wedding shoot", "clientName": "Dina", "projectValue": "5000000", "fundType": "profit_bank"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setActor(c, "rani")

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "Wedding shoot" {
		t.Errorf("Expected name 'Wedding shoot', got %s", response.Name)
	}
	if response.PaymentStatus != domain.PaymentUnpaid {
		t.Errorf("Expected status belum_bayar, got %s", response.PaymentStatus)
	}
	if response.CreatedBy != "rani" {
		t.Errorf("Expected createdBy rani, got %s", response.CreatedBy)
	}
}

func TestCreateTransactionHandler_InvalidValue(t *testing.T) {
	e := echo.New()
	handler := newTransactionHandler(testutil.NewMockTransactionRepository(), testutil.NewMockFundRepository())

	reqBody := `{"name": "Wedding shoot", "projectValue": "lots", "fundType": "profit_bank"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setActor(c, "rani")

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected validation problem type, got %s", problem.Type)
	}
}

func TestPayTransactionHandler(t *testing.T) {
	e := echo.New()
	txRepo := testutil.NewMockTransactionRepository()
	fundRepo := testutil.NewMockFundRepository()
	handler := newTransactionHandler(txRepo, fundRepo)

	tx := &domain.Transaction{
		Name:          "Wedding shoot",
		ProjectValue:  mustDecimal(t, "5000000"),
		PaymentStatus: domain.PaymentUnpaid,
		DownPayment:   mustDecimal(t, "0"),
		Remaining:     mustDecimal(t, "5000000"),
		Fund:          domain.FundProfitBank,
	}
	txRepo.AddTransaction(tx)

	reqBody := `{"amount": "2000000", "referenceId": "pay-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/1/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setActor(c, "rani")

	if err := handler.PayTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.PaymentStatus != domain.PaymentPartial {
		t.Errorf("Expected status dp, got %s", response.PaymentStatus)
	}
	if !response.Remaining.Equal(mustDecimal(t, "3000000")) {
		t.Errorf("Expected remaining 3000000, got %s", response.Remaining)
	}

	balance, _ := fundRepo.GetBalance(domain.FundProfitBank)
	if !balance.CurrentBalance.Equal(mustDecimal(t, "2000000")) {
		t.Errorf("Expected fund credited 2000000, got %s", balance.CurrentBalance)
	}
}

func TestPayTransactionHandler_InvalidAmount(t *testing.T) {
	e := echo.New()
	txRepo := testutil.NewMockTransactionRepository()
	handler := newTransactionHandler(txRepo, testutil.NewMockFundRepository())

	tx := &domain.Transaction{
		Name:          "Wedding shoot",
		ProjectValue:  mustDecimal(t, "5000000"),
		PaymentStatus: domain.PaymentUnpaid,
		DownPayment:   mustDecimal(t, "0"),
		Remaining:     mustDecimal(t, "5000000"),
		Fund:          domain.FundProfitBank,
	}
	txRepo.AddTransaction(tx)

	// Overpayment from unpaid is not a valid transition
	reqBody := `{"amount": "9000000", "referenceId": "pay-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/1/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setActor(c, "rani")

	if err := handler.PayTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestArchiveTransactionHandler_NotFound(t *testing.T) {
	e := echo.New()
	handler := newTransactionHandler(testutil.NewMockTransactionRepository(), testutil.NewMockFundRepository())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")
	setActor(c, "rani")

	if err := handler.ArchiveTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
