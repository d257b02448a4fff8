package services

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// allowedContentTypes is the upload allow-list: images, documents and
// spreadsheets.
var allowedContentTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
	"text/csv":   true,
}

type FileService struct {
	db       *gorm.DB
	projects *ProjectService
	backend  storage.Backend
	maxBytes int64
}

func NewFileService(db *gorm.DB, projects *ProjectService, backend storage.Backend, maxBytes int64) *FileService {
	return &FileService{db: db, projects: projects, backend: backend, maxBytes: maxBytes}
}

// Upload validates and stores a multipart upload for a project the
// actor belongs to.
func (s *FileService) Upload(actor *models.User, projectID uuid.UUID, header *multipart.FileHeader, description string) (*models.File, error) {
	if !s.projects.CanAccess(actor, projectID) {
		return nil, ErrNotMember
	}
	if header.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	contentType := normalizeContentType(header.Header.Get("Content-Type"))
	if !allowedContentTypes[contentType] {
		return nil, ErrUnsupportedType
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	path, err := s.backend.Save(storedName, src, header.Size, contentType)
	if err != nil {
		return nil, err
	}

	file := models.File{
		ID:           uuid.New(),
		ProjectID:    projectID,
		UploadedBy:   actor.ID,
		StoredName:   storedName,
		OriginalName: header.Filename,
		Description:  description,
		ContentType:  contentType,
		Size:         header.Size,
		StorageType:  s.backend.Type(),
		StoragePath:  path,
	}

	if err := s.db.Create(&file).Error; err != nil {
		// Orphan blob cleanup is best-effort.
		if rmErr := s.backend.Remove(path); rmErr != nil {
			slog.Error("failed to remove orphan blob", "path", path, "error", rmErr)
		}
		return nil, err
	}
	return &file, nil
}

// List returns the project's files; soft-deleted rows are excluded by
// the default query.
func (s *FileService) List(actor *models.User, projectID uuid.UUID, page, limit int) ([]models.File, int64, error) {
	if !s.projects.CanAccess(actor, projectID) {
		return nil, 0, ErrNotMember
	}

	var total int64
	s.db.Model(&models.File{}).Scopes(models.ForProject(projectID)).Count(&total)

	var files []models.File
	err := s.db.Scopes(models.ForProject(projectID)).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&files).Error

	return files, total, err
}

// Open returns the file row plus either a redirect URL (object
// storage) or a reader to stream (local storage). Exactly one of the
// two is set.
func (s *FileService) Open(actor *models.User, fileID uuid.UUID) (*models.File, string, io.ReadCloser, error) {
	file, err := s.load(fileID)
	if err != nil {
		return nil, "", nil, err
	}
	if !s.projects.CanAccess(actor, file.ProjectID) {
		return nil, "", nil, ErrNotMember
	}

	if url := s.backend.URL(file.StoragePath); url != "" {
		return file, url, nil, nil
	}

	reader, err := s.backend.Open(file.StoragePath)
	if err != nil {
		return nil, "", nil, err
	}
	return file, "", reader, nil
}

// Delete soft-deletes the row and best-effort removes the blob.
// Uploader or admin only.
func (s *FileService) Delete(actor *models.User, fileID uuid.UUID) error {
	file, err := s.load(fileID)
	if err != nil {
		return err
	}
	if file.UploadedBy != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.db.Delete(file).Error; err != nil {
		return err
	}

	if err := s.backend.Remove(file.StoragePath); err != nil {
		slog.Error("failed to remove blob", "path", file.StoragePath, "error", err)
	}
	return nil
}

func (s *FileService) load(fileID uuid.UUID) (*models.File, error) {
	var file models.File
	if err := s.db.First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
