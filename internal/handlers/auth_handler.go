package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/services"
	"github.com/workhive/workhive-backend/internal/validation"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.authService.Logout(&req); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return ok(c, services.UserToResponse(user))
}
