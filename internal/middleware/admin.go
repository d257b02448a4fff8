package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workhive/workhive-backend/internal/dto"
)

// AdminRequired rejects non-admin accounts. Runs after LoadUser.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Success: false, Error: "Unauthorized",
			})
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Success: false, Error: "Admin access required",
			})
		}
		return c.Next()
	}
}
