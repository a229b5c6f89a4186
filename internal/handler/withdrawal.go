package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/primevest/backend/internal/middleware"
	"github.com/primevest/backend/internal/repository"
	"github.com/primevest/backend/internal/service"
)

// GetWithdrawalEligibility reports whether the user may withdraw now and,
// if not, what they must reinvest first
func (h *Handler) GetWithdrawalEligibility(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	eligibility, err := h.withdrawalSvc.CanWithdraw(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to check eligibility",
		})
	}

	return c.JSON(eligibility)
}

type WithdrawalRequest struct {
	Amount string `json:"amount"`
}

// RequestWithdrawal files a pending withdrawal for admin review
func (h *Handler) RequestWithdrawal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req WithdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid amount",
		})
	}

	w, err := h.withdrawalSvc.RequestWithdrawal(c.Context(), userID, amount, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientBalance):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "insufficient balance"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to request withdrawal",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"withdrawal": w})
}

// GetWithdrawals returns the user's withdrawal history
func (h *Handler) GetWithdrawals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	withdrawals, err := h.withdrawalSvc.GetUserWithdrawals(c.Context(), userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get withdrawals",
		})
	}

	return c.JSON(fiber.Map{"withdrawals": withdrawals})
}
