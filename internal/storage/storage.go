package storage

import (
	"io"

	"github.com/workhive/workhive-backend/internal/config"
)

// Backend abstracts where uploaded blobs live. Save returns the
// storage path recorded on the file row.
type Backend interface {
	Save(name string, r io.Reader, size int64, contentType string) (string, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
	// URL returns a client-fetchable location, or "" when the blob
	// must be streamed through the API (local backend).
	URL(path string) string
	Type() string
}

// New selects the backend from configuration.
func New(cfg *config.Config) (Backend, error) {
	if cfg.StorageBackend == "s3" {
		return NewS3(cfg)
	}
	return NewLocal(cfg.UploadDir)
}
