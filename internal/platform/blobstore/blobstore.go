// Package blobstore stores files attached to consultations. It defines the
// Store interface, a filesystem implementation, an in-memory implementation
// for tests, and the multipart upload handler.
package blobstore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrMissingFileName    = errors.New("file name is required")
)

// MaxFileSize is the upload size cap (5 MB).
const MaxFileSize = 5 * 1024 * 1024

// AllowedContentTypes lists the MIME types accepted for consultation
// attachments.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"text/plain":      true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// DefaultDocumentType labels uploads whose caller did not classify them.
const DefaultDocumentType = "document"

// Metadata describes a stored file.
type Metadata struct {
	ID             uuid.UUID `json:"id"`
	ConsultationID uuid.UUID `json:"consultation_id"`
	FileName       string    `json:"file_name"`
	StoredName     string    `json:"stored_name"`
	ContentType    string    `json:"content_type"`
	DocumentType   string    `json:"document_type"`
	Size           int64     `json:"size"`
	URL            string    `json:"url"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is the contract for attachment storage backends.
type Store interface {
	Save(ctx context.Context, meta Metadata, content io.Reader) (*Metadata, error)
	Open(ctx context.Context, consultationID uuid.UUID, storedName string) (io.ReadCloser, *Metadata, error)
	Delete(ctx context.Context, consultationID uuid.UUID, storedName string) error
	ListByConsultation(ctx context.Context, consultationID uuid.UUID) ([]*Metadata, error)
}

func validate(meta Metadata) error {
	if meta.FileName == "" {
		return ErrMissingFileName
	}
	if !AllowedContentTypes[meta.ContentType] {
		return ErrInvalidContentType
	}
	return nil
}

// storedName derives the on-disk name: a fresh uuid keeping the original
// extension so content type survives a round trip.
func storedName(fileName string) string {
	return uuid.New().String() + filepath.Ext(fileName)
}

// readCapped reads at most MaxFileSize bytes, failing on larger content.
func readCapped(content io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
