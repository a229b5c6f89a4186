package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/primevest/backend/internal/middleware"
)

// GetReferralStats returns the user's referral counts and earned bonuses
func (h *Handler) GetReferralStats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	stats, err := h.referralSvc.GetStats(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get referral stats",
		})
	}

	return c.JSON(stats)
}

// GetReferrals returns the users this user referred
func (h *Handler) GetReferrals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	referrals, err := h.referralSvc.GetReferrals(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get referrals",
		})
	}

	return c.JSON(fiber.Map{"referrals": referrals})
}
