package handler

import (
	"net/http"

	"github.com/gilangpr/kasku/kasku-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, transactionHandler *TransactionHandler, expenseHandler *ExpenseHandler, inventoryHandler *InventoryHandler, reportHandler *ReportHandler, fundHandler *FundHandler, billingHandler *BillingHandler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// API version 1
	api := e.Group("/api/v1")
	api.Use(middleware.RequireActor())

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.POST("/:id/payments", transactionHandler.PayTransaction)
	transactions.PATCH("/:id/payment-status", transactionHandler.OverridePayment)
	transactions.DELETE("/:id", transactionHandler.ArchiveTransaction)
	transactions.POST("/:id/restore", transactionHandler.RestoreTransaction)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.DELETE("/:id", expenseHandler.ArchiveExpense)
	expenses.POST("/:id/restore", expenseHandler.RestoreExpense)

	// Inventory routes
	inventory := api.Group("/inventory")
	inventory.POST("", inventoryHandler.CreateItem)
	inventory.GET("", inventoryHandler.GetItems)
	inventory.GET("/low-stock", inventoryHandler.GetLowStockItems)
	inventory.GET("/:id", inventoryHandler.GetItem)
	inventory.POST("/:id/adjustments", inventoryHandler.AdjustItem)
	inventory.GET("/:id/adjustments", inventoryHandler.GetAdjustments)
	inventory.POST("/:id/payments", inventoryHandler.PayItem)
	inventory.DELETE("/:id", inventoryHandler.ArchiveItem)
	inventory.POST("/:id/restore", inventoryHandler.RestoreItem)

	// Report routes
	reports := api.Group("/reports")
	reports.GET("/monthly", reportHandler.GetMonthlyReport)
	reports.GET("/monthly/:year/:month/breakdown", reportHandler.GetBucketBreakdown)

	// Fund routes
	funds := api.Group("/funds")
	funds.GET("", fundHandler.GetBalances)
	funds.GET("/:fund", fundHandler.GetBalance)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.GET("/reminders", billingHandler.GetReminders)
}
