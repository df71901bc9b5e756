package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/config"
	"github.com/gilangpr/kasku/kasku-backend/internal/handler"
	"github.com/gilangpr/kasku/kasku-backend/internal/middleware"
	"github.com/gilangpr/kasku/kasku-backend/internal/repository/postgres"
	"github.com/gilangpr/kasku/kasku-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	fundRepo := postgres.NewFundRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	adjustmentRepo := postgres.NewAdjustmentRepository(pool)

	// Initialize services
	ledgerService := service.NewLedgerService(fundRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	paymentService := service.NewPaymentService(transactionRepo, inventoryRepo, ledgerService)
	expenseService := service.NewExpenseService(expenseRepo, transactionRepo, inventoryRepo, ledgerService)
	inventoryService := service.NewInventoryService(inventoryRepo, adjustmentRepo)
	billingService := service.NewBillingService(inventoryRepo)
	lifecycleService := service.NewLifecycleService(transactionRepo, expenseRepo, inventoryRepo)
	reportService := service.NewReportService(transactionRepo, expenseRepo)

	// Initialize handlers
	transactionHandler := handler.NewTransactionHandler(transactionService, paymentService, lifecycleService)
	expenseHandler := handler.NewExpenseHandler(expenseService, lifecycleService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, paymentService, lifecycleService)
	reportHandler := handler.NewReportHandler(reportService)
	fundHandler := handler.NewFundHandler(ledgerService)
	billingHandler := handler.NewBillingHandler(billingService)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.ActorHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Per-client rate limiting
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register API routes
	handler.RegisterRoutes(e, transactionHandler, expenseHandler, inventoryHandler, reportHandler, fundHandler, billingHandler)

	// Daily reminder sweep: refresh stored billing dates, then log what is due
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ReminderCron, func() {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if err := billingService.RefreshNextBillingDates(today); err != nil {
			log.Error().Err(err).Msg("Billing date refresh failed")
			return
		}
		reminders, err := billingService.DueReminders(today)
		if err != nil {
			log.Error().Err(err).Msg("Reminder sweep failed")
			return
		}
		for _, r := range reminders {
			log.Info().
				Int32("item_id", r.Item.ID).
				Str("name", r.Item.Name).
				Str("next_billing_date", r.NextBillingDate.Format("2006-01-02")).
				Int("days_until_due", r.DaysUntilDue).
				Msg("Subscription billing due")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.ReminderCron).Msg("Failed to schedule reminder sweep")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
