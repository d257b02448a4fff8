package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/services"
	"github.com/workhive/workhive-backend/internal/validation"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	task, err := h.taskService.Create(user, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, task)
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	filter, err := taskFilterFromQuery(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	page, limit := pagination(c)
	tasks, total, err := h.taskService.List(user, filter, page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return listResponse(c, tasks, total, page, limit)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.taskService.Get(user, taskID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, task)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	task, err := h.taskService.Update(user, taskID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, task)
}

// ToggleStatus cycles new -> in_progress -> done -> new.
func (h *TaskHandler) ToggleStatus(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.taskService.ToggleStatus(user, taskID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	if err := h.taskService.Delete(user, taskID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "Task deleted"})
}

func taskFilterFromQuery(c *fiber.Ctx) (*dto.TaskFilter, error) {
	filter := &dto.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}

	if raw := c.Query("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid project_id filter")
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid assigned_to filter")
		}
		filter.AssignedTo = &id
	}
	if raw := c.Query("due_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid due_before filter")
		}
		filter.DueBefore = &t
	}
	if raw := c.Query("due_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid due_after filter")
		}
		filter.DueAfter = &t
	}
	return filter, nil
}
