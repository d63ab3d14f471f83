package consultation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no consultation matches the lookup.
var ErrNotFound = errors.New("consultation not found")

// ErrAlreadyExists is returned by Create when the appointment already has a
// consultation. Callers re-read the existing row to stay idempotent.
var ErrAlreadyExists = errors.New("consultation already exists for appointment")

// ErrVersionConflict is returned when a document mutation carries a stale
// documents version. The caller must re-read and retry.
var ErrVersionConflict = errors.New("documents were modified concurrently")

type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Consultation, error)
	Update(ctx context.Context, c *Consultation) error
	// UpdateDocuments replaces the document list if expectedVersion still
	// matches, bumping the version counter. Returns ErrVersionConflict on a
	// stale version.
	UpdateDocuments(ctx context.Context, id uuid.UUID, docs []Document, expectedVersion int) (*Consultation, error)
	Detail(ctx context.Context, id uuid.UUID) (*Detail, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Consultation, int, error)
}
