package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/gilangpr/kasku/kasku-backend/internal/service"
	"github.com/gilangpr/kasku/kasku-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

func newInventoryHandler(invRepo *testutil.MockInventoryRepository, adjRepo *testutil.MockAdjustmentRepository) *InventoryHandler {
	txRepo := testutil.NewMockTransactionRepository()
	expRepo := testutil.NewMockExpenseRepository()
	ledger := service.NewLedgerService(testutil.NewMockFundRepository())
	return NewInventoryHandler(
		service.NewInventoryService(invRepo, adjRepo),
		service.NewPaymentService(txRepo, invRepo, ledger),
		service.NewLifecycleService(txRepo, expRepo, invRepo),
	)
}

func TestAdjustItemHandler(t *testing.T) {
	e := echo.New()
	invRepo := testutil.NewMockInventoryRepository()
	adjRepo := testutil.NewMockAdjustmentRepository(invRepo)
	handler := newInventoryHandler(invRepo, adjRepo)

	item := &domain.InventoryItem{
		Name:         "SD cards",
		Type:         domain.ItemEquipment,
		Quantity:     10,
		MinimumStock: 2,
		UnitPrice:    mustDecimal(t, "150000"),
		TotalValue:   mustDecimal(t, "1500000"),
		PurchaseDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Fund:         domain.FundPettyCash,
	}
	invRepo.AddItem(item)

	reqBody := `{"adjustmentType": "decrease", "quantity": 3, "reason": "damaged", "note": "dropped on set"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/1/adjustments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setActor(c, "rani")

	if err := handler.AdjustItem(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response AdjustmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Item.Quantity != 7 {
		t.Errorf("Expected quantity 7, got %d", response.Item.Quantity)
	}
	if response.Adjustment.PreviousQuantity != 10 || response.Adjustment.NewQuantity != 7 {
		t.Errorf("Expected snapshot 10 -> 7, got %d -> %d", response.Adjustment.PreviousQuantity, response.Adjustment.NewQuantity)
	}
	if response.Adjustment.Actor != "rani" {
		t.Errorf("Expected actor rani, got %s", response.Adjustment.Actor)
	}
}

func TestAdjustItemHandler_InsufficientQuantity(t *testing.T) {
	e := echo.New()
	invRepo := testutil.NewMockInventoryRepository()
	handler := newInventoryHandler(invRepo, testutil.NewMockAdjustmentRepository(invRepo))

	item := &domain.InventoryItem{
		Name:         "SD cards",
		Type:         domain.ItemEquipment,
		Quantity:     2,
		UnitPrice:    mustDecimal(t, "150000"),
		PurchaseDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Fund:         domain.FundPettyCash,
	}
	invRepo.AddItem(item)

	reqBody := `{"adjustmentType": "decrease", "quantity": 5, "reason": "sales"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/1/adjustments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setActor(c, "rani")

	if err := handler.AdjustItem(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAdjustItemHandler_UnknownReason(t *testing.T) {
	e := echo.New()
	invRepo := testutil.NewMockInventoryRepository()
	handler := newInventoryHandler(invRepo, testutil.NewMockAdjustmentRepository(invRepo))

	reqBody := `{"adjustmentType": "increase", "quantity": 1, "reason": "misc"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/1/adjustments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setActor(c, "rani")

	if err := handler.AdjustItem(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
