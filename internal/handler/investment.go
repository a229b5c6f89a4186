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

type CreateInvestmentRequest struct {
	PlanID string `json:"plan_id"`
	Amount string `json:"amount"`
}

// CreateInvestment opens a new term deposit from the user's balance
func (h *Handler) CreateInvestment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req CreateInvestmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid plan id",
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid amount",
		})
	}

	inv, err := h.investmentSvc.CreateInvestment(c.Context(), userID, planID, amount, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPlanNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "plan not found"})
		case errors.Is(err, service.ErrPlanInactive),
			errors.Is(err, service.ErrAmountOutOfRange):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientBalance):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "insufficient balance"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create investment",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"investment": inv})
}

// GetInvestments returns the user's investments
func (h *Handler) GetInvestments(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	investments, err := h.investmentSvc.GetUserInvestments(c.Context(), userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get investments",
		})
	}

	return c.JSON(fiber.Map{"investments": investments})
}

// GetInvestment returns a single investment owned by the user
func (h *Handler) GetInvestment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid investment id",
		})
	}

	inv, err := h.investmentSvc.GetInvestment(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "investment not found",
		})
	}
	if inv.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "investment not found",
		})
	}

	entries, err := h.balanceSvc.GetRelatedTransactions(c.Context(), model.Related{
		Kind: model.RelatedInvestment,
		ID:   inv.ID,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get investment",
		})
	}

	return c.JSON(fiber.Map{
		"investment":   inv,
		"transactions": entries,
	})
}
