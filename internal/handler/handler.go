package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/primevest/backend/internal/config"
	"github.com/primevest/backend/internal/service"
)

type Handler struct {
	cfg           *config.Config
	userService   *service.UserService
	planService   *service.PlanService
	investmentSvc *service.InvestmentService
	referralSvc   *service.ReferralService
	balanceSvc    *service.BalanceService
	withdrawalSvc *service.WithdrawalService
}

func New(
	cfg *config.Config,
	userService *service.UserService,
	planService *service.PlanService,
	investmentSvc *service.InvestmentService,
	referralSvc *service.ReferralService,
	balanceSvc *service.BalanceService,
	withdrawalSvc *service.WithdrawalService,
) *Handler {
	return &Handler{
		cfg:           cfg,
		userService:   userService,
		planService:   planService,
		investmentSvc: investmentSvc,
		referralSvc:   referralSvc,
		balanceSvc:    balanceSvc,
		withdrawalSvc: withdrawalSvc,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
