package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primevest/backend/internal/middleware"
	"github.com/primevest/backend/internal/model"
	"github.com/primevest/backend/internal/repository"
	"github.com/primevest/backend/internal/service"
)

// AdminHandler handles admin panel requests
type AdminHandler struct {
	userService   *service.UserService
	planService   *service.PlanService
	investmentSvc *service.InvestmentService
	balanceSvc    *service.BalanceService
	withdrawalSvc *service.WithdrawalService
	worker        *service.SettlementWorker
}

func NewAdminHandler(
	userService *service.UserService,
	planService *service.PlanService,
	investmentSvc *service.InvestmentService,
	balanceSvc *service.BalanceService,
	withdrawalSvc *service.WithdrawalService,
	worker *service.SettlementWorker,
) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		planService:   planService,
		investmentSvc: investmentSvc,
		balanceSvc:    balanceSvc,
		withdrawalSvc: withdrawalSvc,
		worker:        worker,
	}
}

// GetOverview returns platform-wide totals
func (h *AdminHandler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.userService.GetPlatformOverview(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get overview",
		})
	}

	return c.JSON(overview)
}

type AdjustBalanceRequest struct {
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
}

// AdjustBalance applies a manual credit or debit to a user's balance
func (h *AdminHandler) AdjustBalance(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	userID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid user id",
		})
	}

	var req AdjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	direction := service.AdjustDirection(req.Direction)
	if direction != service.AdjustCredit && direction != service.AdjustDebit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "direction must be credit or debit",
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid amount",
		})
	}

	entry, err := h.balanceSvc.Adjust(c.Context(), userID, adminID, direction, amount, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount),
			errors.Is(err, service.ErrReasonRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientBalance):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "insufficient balance"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to adjust balance",
			})
		}
	}

	return c.JSON(fiber.Map{"transaction": entry})
}

// GetPendingWithdrawals lists withdrawals awaiting review
func (h *AdminHandler) GetPendingWithdrawals(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	withdrawals, err := h.withdrawalSvc.GetPendingWithdrawals(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get pending withdrawals",
		})
	}

	return c.JSON(fiber.Map{"withdrawals": withdrawals})
}

type ReviewWithdrawalRequest struct {
	Comment *string `json:"comment"`
}

// ApproveWithdrawal settles a pending withdrawal and debits the user
func (h *AdminHandler) ApproveWithdrawal(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid withdrawal id",
		})
	}

	var req ReviewWithdrawalRequest
	_ = c.BodyParser(&req)

	comment := ""
	if req.Comment != nil {
		comment = *req.Comment
	}

	w, err := h.withdrawalSvc.Approve(c.Context(), id, adminID, comment, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWithdrawalNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "withdrawal not found"})
		case errors.Is(err, repository.ErrWithdrawalNotPending):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "withdrawal is not pending"})
		case errors.Is(err, repository.ErrRecommitRequired):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "recommit required"})
		case errors.Is(err, repository.ErrInsufficientBalance):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "insufficient balance"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to approve withdrawal",
			})
		}
	}

	return c.JSON(fiber.Map{"withdrawal": w})
}

// DeclineWithdrawal rejects a pending withdrawal with a mandatory comment
func (h *AdminHandler) DeclineWithdrawal(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid withdrawal id",
		})
	}

	var req ReviewWithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	comment := ""
	if req.Comment != nil {
		comment = *req.Comment
	}

	w, err := h.withdrawalSvc.Decline(c.Context(), id, adminID, comment, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrWithdrawalNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "withdrawal not found"})
		case errors.Is(err, repository.ErrWithdrawalNotPending):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "withdrawal is not pending"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to decline withdrawal",
			})
		}
	}

	return c.JSON(fiber.Map{"withdrawal": w})
}

type BulkApproveRequest struct {
	IDs []string `json:"ids"`
}

// BulkApproveWithdrawals approves a batch of withdrawals, reporting
// per-item failures
func (h *AdminHandler) BulkApproveWithdrawals(c *fiber.Ctx) error {
	adminID := middleware.GetAdminID(c)

	var req BulkApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if len(req.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no withdrawal ids given",
		})
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid withdrawal id: " + raw,
			})
		}
		ids = append(ids, id)
	}

	result, err := h.withdrawalSvc.BulkApprove(c.Context(), ids, adminID, time.Now().UTC())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to approve withdrawals",
		})
	}

	return c.JSON(result)
}

// ListPlans returns all plans including inactive ones
func (h *AdminHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.planService.GetAllPlans(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get plans",
		})
	}

	return c.JSON(fiber.Map{"plans": plans})
}

type PlanRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	MinAmount     string  `json:"min_amount"`
	MaxAmount     *string `json:"max_amount"`
	ProfitPercent string  `json:"profit_percent"`
	DurationDays  int     `json:"duration_days"`
	IsActive      *bool   `json:"is_active"`
}

// CreatePlan adds a new investment plan
func (h *AdminHandler) CreatePlan(c *fiber.Ctx) error {
	var req PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	minAmount, err := decimal.NewFromString(req.MinAmount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid min_amount"})
	}
	percent, err := decimal.NewFromString(req.ProfitPercent)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid profit_percent"})
	}

	plan := &model.InvestmentPlan{
		Name:          req.Name,
		MinAmount:     minAmount,
		ProfitPercent: percent,
		DurationDays:  req.DurationDays,
		IsActive:      true,
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.MaxAmount != nil {
		maxAmount, err := decimal.NewFromString(*req.MaxAmount)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid max_amount"})
		}
		plan.MaxAmount = &maxAmount
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	created, err := h.planService.CreatePlan(c.Context(), plan)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlan) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create plan",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"plan": created})
}

type UpdatePlanRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	MinAmount     *string `json:"min_amount"`
	MaxAmount     *string `json:"max_amount"`
	ProfitPercent *string `json:"profit_percent"`
	DurationDays  *int    `json:"duration_days"`
	IsActive      *bool   `json:"is_active"`
}

// UpdatePlan patches an existing plan
func (h *AdminHandler) UpdatePlan(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("plan_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid plan id",
		})
	}

	var req UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	var minAmount, maxAmount, percent *decimal.Decimal
	if req.MinAmount != nil {
		v, err := decimal.NewFromString(*req.MinAmount)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid min_amount"})
		}
		minAmount = &v
	}
	if req.MaxAmount != nil {
		v, err := decimal.NewFromString(*req.MaxAmount)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid max_amount"})
		}
		maxAmount = &v
	}
	if req.ProfitPercent != nil {
		v, err := decimal.NewFromString(*req.ProfitPercent)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid profit_percent"})
		}
		percent = &v
	}

	plan, err := h.planService.UpdatePlan(c.Context(), id, req.Name, req.Description, minAmount, maxAmount, percent, req.DurationDays, req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPlanNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "plan not found"})
		case errors.Is(err, service.ErrInvalidPlan):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update plan",
			})
		}
	}

	return c.JSON(fiber.Map{"plan": plan})
}

// DeletePlan removes a plan that has no investments
func (h *AdminHandler) DeletePlan(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("plan_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid plan id",
		})
	}

	if err := h.planService.DeletePlan(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrPlanNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "plan not found"})
		case errors.Is(err, service.ErrPlanInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to delete plan",
			})
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListInvestments returns investments across all users
func (h *AdminHandler) ListInvestments(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	investments, err := h.investmentSvc.ListInvestments(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get investments",
		})
	}

	return c.JSON(fiber.Map{"investments": investments})
}

// DeleteInvestment removes a settled or cancelled investment record
func (h *AdminHandler) DeleteInvestment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid investment id",
		})
	}

	if err := h.investmentSvc.DeleteInvestment(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvestmentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "investment not found"})
		case errors.Is(err, service.ErrActiveInvestment):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to delete investment",
			})
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RunSettlement triggers a settlement pass immediately
func (h *AdminHandler) RunSettlement(c *fiber.Ctx) error {
	matured, referrals := h.worker.RunOnce(c.Context(), time.Now().UTC())

	return c.JSON(fiber.Map{
		"matured":   matured,
		"referrals": referrals,
	})
}
