package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"testing"

	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/realtime"
	"github.com/workhive/workhive-backend/internal/storage"
	"gorm.io/gorm"
)

func newFileService(t *testing.T, db *gorm.DB, maxBytes int64) *FileService {
	t.Helper()

	backend, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local backend: %v", err)
	}

	notifications := NewNotificationService(db, realtime.NewHub())
	projects := NewProjectService(db, notifications)
	return NewFileService(db, projects, backend, maxBytes)
}

func makeFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write part data: %v", err)
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func TestFileUpload_StoresBlobAndRow(t *testing.T) {
	db := newTestDB(t)
	svc := newFileService(t, db, 1<<20)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	project := createTestProject(t, db, admin)

	header := makeFileHeader(t, "Notes.TXT", "text/plain; charset=utf-8", []byte("meeting notes"))
	file, err := svc.Upload(admin, project.ID, header, "weekly notes")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if file.OriginalName != "Notes.TXT" {
		t.Errorf("expected original name preserved, got %q", file.OriginalName)
	}
	if file.ContentType != "text/plain" {
		t.Errorf("expected content type normalized, got %q", file.ContentType)
	}
	if file.StorageType != models.StorageLocal {
		t.Errorf("expected local storage type, got %q", file.StorageType)
	}

	// The blob is readable through the backend path.
	_, url, reader, err := svc.Open(admin, file.ID)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if url != "" {
		t.Errorf("expected streaming for local storage, got url %q", url)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "meeting notes" {
		t.Errorf("expected stored content, got %q", data)
	}
}

func TestFileUpload_RejectsOversize(t *testing.T) {
	db := newTestDB(t)
	svc := newFileService(t, db, 10)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	project := createTestProject(t, db, admin)

	header := makeFileHeader(t, "big.txt", "text/plain", bytes.Repeat([]byte("x"), 64))
	_, err := svc.Upload(admin, project.ID, header, "")
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestFileUpload_RejectsUnsupportedType(t *testing.T) {
	db := newTestDB(t)
	svc := newFileService(t, db, 1<<20)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	project := createTestProject(t, db, admin)

	header := makeFileHeader(t, "payload.bin", "application/octet-stream", []byte{0x1, 0x2})
	_, err := svc.Upload(admin, project.ID, header, "")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestFileUpload_RequiresMembership(t *testing.T) {
	db := newTestDB(t)
	svc := newFileService(t, db, 1<<20)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	eve := createTestUser(t, db, "Eve", "eve@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)

	header := makeFileHeader(t, "notes.txt", "text/plain", []byte("hi"))
	_, err := svc.Upload(eve, project.ID, header, "")
	if !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestFileDelete_UploaderOrAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newFileService(t, db, 1<<20)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)
	carl := createTestUser(t, db, "Carl", "carl@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)
	addTestMember(t, db, project.ID, bob.ID)
	addTestMember(t, db, project.ID, carl.ID)

	header := makeFileHeader(t, "spec.pdf", "application/pdf", []byte("%PDF-1.4"))
	file, err := svc.Upload(bob, project.ID, header, "")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := svc.Delete(carl, file.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for other member, got %v", err)
	}

	if err := svc.Delete(bob, file.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// Soft-deleted rows disappear from listings and the blob is gone.
	files, total, err := svc.List(bob, project.ID, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 0 || len(files) != 0 {
		t.Errorf("expected deleted file excluded from list, got %d", total)
	}
	if _, err := os.Stat(file.StoragePath); !os.IsNotExist(err) {
		t.Errorf("expected blob removed, stat err %v", err)
	}
}
