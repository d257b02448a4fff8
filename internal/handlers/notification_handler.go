package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	page, limit := pagination(c)
	unreadOnly := c.QueryBool("unread", false)

	notifications, total, err := h.notificationService.List(user.ID, unreadOnly, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return listResponse(c, notifications, total, page, limit)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	count, err := h.notificationService.UnreadCount(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(user.ID, notificationID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	updated, err := h.notificationService.MarkAllRead(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"updated": updated})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notificationService.Delete(user.ID, notificationID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "Notification deleted"})
}

func (h *NotificationHandler) Clear(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	deleted, err := h.notificationService.Clear(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"deleted": deleted})
}
