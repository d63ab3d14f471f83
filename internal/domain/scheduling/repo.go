package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no appointment matches the lookup.
var ErrNotFound = errors.New("appointment not found")

// ErrInvalidTransition is returned when a status change would move an
// appointment backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
}
