package medicalrecord

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("medical record not found")

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error)
}
