package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const UserIDKey = "user_id"

// Auth resolves the authenticated user from the X-User-ID header set by
// the API gateway after session validation.
func Auth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-User-ID")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid user id",
			})
		}

		c.Locals(UserIDKey, userID)

		return c.Next()
	}
}

// GetUserID returns the authenticated user ID from context
func GetUserID(c *fiber.Ctx) int64 {
	userID, ok := c.Locals(UserIDKey).(int64)
	if !ok {
		return 0
	}
	return userID
}
