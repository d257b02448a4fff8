package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/services"
)

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

func listResponse(c *fiber.Ctx, data interface{}, count int64, page, limit int) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   count,
		"page":    page,
		"limit":   limit,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Error: message})
}

func failValidation(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Success: false,
		Error:   "Validation failed",
		Fields:  fields,
	})
}

// serviceError maps service sentinel errors to HTTP statuses. Unknown
// errors become a logged 500 with the detail suppressed.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotMember):
		return fail(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrAlreadyMember):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrOwnerProtected),
		errors.Is(err, services.ErrSelfDeactivation):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrFileTooLarge):
		return fail(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, services.ErrUnsupportedType):
		return fail(c, fiber.StatusUnsupportedMediaType, err.Error())
	default:
		slog.Error("unhandled service error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

func pagination(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
