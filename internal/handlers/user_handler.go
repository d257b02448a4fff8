package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/services"
	"github.com/workhive/workhive-backend/internal/validation"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.ListActive()
	if err != nil {
		return serviceError(c, err)
	}
	return listResponse(c, users, int64(len(users)), 1, len(users))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	resp, err := h.userService.UpdateProfile(user, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, resp)
}

func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	if err := h.userService.Deactivate(user, userID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "User deactivated"})
}

func (h *UserHandler) Reactivate(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	if err := h.userService.Reactivate(user, userID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "User reactivated"})
}
