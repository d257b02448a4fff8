package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/services"
	"github.com/workhive/workhive-backend/internal/validation"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	message, err := h.messageService.Send(user, projectID, req.Content)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, message)
}

// List returns one page of project chat in chronological order.
func (h *MessageHandler) List(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	page, limit := pagination(c)
	messages, total, err := h.messageService.List(user, projectID, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return listResponse(c, messages, total, page, limit)
}

func (h *MessageHandler) Edit(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid message ID")
	}

	var req dto.EditMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	message, err := h.messageService.Edit(user, messageID, req.Content)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, message)
}

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid message ID")
	}

	if err := h.messageService.Delete(user, messageID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "Message deleted"})
}
