package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/primevest/backend/internal/middleware"
	"github.com/primevest/backend/internal/model"
)

// GetBalance returns the user's current balance
func (h *Handler) GetBalance(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	balance, err := h.balanceSvc.GetBalance(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get balance",
		})
	}

	return c.JSON(fiber.Map{"balance": balance})
}

// GetTransactions returns the user's ledger history, newest first.
// An optional type query filters by transaction type.
func (h *Handler) GetTransactions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if txType := c.Query("type"); txType != "" {
		transactions, err := h.balanceSvc.GetTransactionsByType(c.Context(), userID, model.TransactionType(txType), limit, offset)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get transactions",
			})
		}
		return c.JSON(fiber.Map{"transactions": transactions})
	}

	transactions, err := h.balanceSvc.GetTransactions(c.Context(), userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get transactions",
		})
	}

	return c.JSON(fiber.Map{"transactions": transactions})
}
