package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/primevest/backend/internal/config"
	"github.com/primevest/backend/internal/handler"
	"github.com/primevest/backend/internal/middleware"
	"github.com/primevest/backend/internal/observability"
	"github.com/primevest/backend/internal/repository"
	"github.com/primevest/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := observability.NewLogger(cfg.LogLevel)

	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer repo.Close()

	// Services
	referralSvc := service.NewReferralService(repo, cfg.Referral.BonusAmount, log)
	userService := service.NewUserService(repo, referralSvc, log)
	planService := service.NewPlanService(repo)
	investmentSvc := service.NewInvestmentService(repo, referralSvc, log)
	balanceSvc := service.NewBalanceService(repo)
	withdrawalSvc := service.NewWithdrawalService(repo)

	worker := service.NewSettlementWorker(investmentSvc, referralSvc, cfg.Settlement.Interval, log)

	// Handlers
	h := handler.New(cfg, userService, planService, investmentSvc, referralSvc, balanceSvc, withdrawalSvc)
	adminHandler := handler.NewAdminHandler(userService, planService, investmentSvc, balanceSvc, withdrawalSvc, worker)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
	}))

	// Health check
	app.Get("/health", h.Health)

	// Public API
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	app.Get("/api/plans", h.GetPlans)
	app.Get("/api/plans/:id", h.GetPlan)

	// Internal hooks (gateway-only network, no user auth)
	app.Post("/internal/cron/settle", adminHandler.RunSettlement)

	// Authenticated API
	api := app.Group("/api", middleware.Auth())

	api.Get("/user/me", h.GetMe)
	api.Get("/summary", h.GetFinancialSummary)

	api.Post("/investments", h.CreateInvestment)
	api.Get("/investments", h.GetInvestments)
	api.Get("/investments/:id", h.GetInvestment)

	api.Get("/balance", h.GetBalance)
	api.Get("/balance/transactions", h.GetTransactions)

	api.Get("/withdrawals/eligibility", h.GetWithdrawalEligibility)
	api.Post("/withdrawals", h.RequestWithdrawal)
	api.Get("/withdrawals", h.GetWithdrawals)

	api.Get("/referrals/stats", h.GetReferralStats)
	api.Get("/referrals", h.GetReferrals)

	// Admin panel
	admin := app.Group("/api/admin", middleware.Auth(), middleware.AdminAuth(userService))

	admin.Get("/overview", adminHandler.GetOverview)
	admin.Post("/users/:user_id/balance/adjust", adminHandler.AdjustBalance)

	admin.Get("/withdrawals/pending", adminHandler.GetPendingWithdrawals)
	admin.Post("/withdrawals/bulk-approve", adminHandler.BulkApproveWithdrawals)
	admin.Post("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
	admin.Post("/withdrawals/:id/decline", adminHandler.DeclineWithdrawal)

	admin.Get("/investments", adminHandler.ListInvestments)
	admin.Delete("/investments/:id", adminHandler.DeleteInvestment)

	admin.Get("/plans", adminHandler.ListPlans)
	admin.Post("/plans", adminHandler.CreatePlan)
	admin.Put("/plans/:plan_id", adminHandler.UpdatePlan)
	admin.Delete("/plans/:plan_id", adminHandler.DeletePlan)

	admin.Post("/settlement/run", adminHandler.RunSettlement)

	// Background settlement
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := worker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start settlement worker")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("shutting down server")
		cancel()
		_ = app.Shutdown()
	}()

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
