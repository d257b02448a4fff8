package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/middleware"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/services"
)

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload accepts multipart form data with a "file" part and an
// optional "description" field.
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Missing file upload")
	}

	file, err := h.fileService.Upload(user, projectID, header, c.FormValue("description"))
	if err != nil {
		return serviceError(c, err)
	}
	return created(c, toFileResponse(file))
}

func (h *FileHandler) List(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	page, limit := pagination(c)
	files, total, err := h.fileService.List(user, projectID, page, limit)
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]dto.FileResponse, len(files))
	for i := range files {
		out[i] = toFileResponse(&files[i])
	}
	return listResponse(c, out, total, page, limit)
}

// Download streams local blobs and redirects to a short-lived URL for
// object storage.
func (h *FileHandler) Download(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid file ID")
	}

	file, url, reader, err := h.fileService.Open(user, fileID)
	if err != nil {
		return serviceError(c, err)
	}

	if url != "" {
		return c.Redirect(url, fiber.StatusTemporaryRedirect)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.OriginalName+`"`)
	return c.SendStream(reader, int(file.Size))
}

func (h *FileHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid file ID")
	}

	if err := h.fileService.Delete(user, fileID); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.Map{"message": "File deleted"})
}

func toFileResponse(file *models.File) dto.FileResponse {
	return dto.FileResponse{
		ID:           file.ID,
		ProjectID:    file.ProjectID,
		UploadedBy:   file.UploadedBy,
		OriginalName: file.OriginalName,
		Description:  file.Description,
		ContentType:  file.ContentType,
		Size:         file.Size,
		StorageType:  file.StorageType,
		CreatedAt:    file.CreatedAt,
	}
}
