package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/services"
	"github.com/workhive/workhive-backend/internal/validation"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	resp, err := h.projectService.Create(user, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, resp)
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	page, limit := pagination(c)
	projects, total, err := h.projectService.List(user, c.Query("status"), c.Query("category"), page, limit)
	if err != nil {
		return serviceError(c, err)
	}
	return listResponse(c, projects, total, page, limit)
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	resp, err := h.projectService.Get(user, projectID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, resp)
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	resp, err := h.projectService.Update(user, projectID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, resp)
}

// Delete transitions the project to completed.
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	if err := h.projectService.Delete(user, projectID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "Project completed"})
}

func (h *ProjectHandler) AddMember(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validation.Struct(&req); fields != nil {
		return failValidation(c, fields)
	}

	if err := h.projectService.AddMember(user, projectID, &req); err != nil {
		return serviceError(c, err)
	}
	return created(c, fiber.Map{"message": "Member added"})
}

func (h *ProjectHandler) RemoveMember(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}
	memberID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	if err := h.projectService.RemoveMember(user, projectID, memberID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "Member removed"})
}

func (h *ProjectHandler) TransferOwnership(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}
	newOwnerID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	if err := h.projectService.TransferOwnership(user, projectID, newOwnerID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "Ownership transferred"})
}
