package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/workhive/workhive-backend/internal/models"
)

// Local stores blobs on the server filesystem under a base directory.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Save(name string, r io.Reader, size int64, contentType string) (string, error) {
	path := filepath.Join(l.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

func (l *Local) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (l *Local) Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *Local) URL(path string) string {
	return ""
}

func (l *Local) Type() string {
	return models.StorageLocal
}
