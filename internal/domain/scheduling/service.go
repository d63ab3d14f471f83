package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusInProgress: true,
	StatusCompleted: true, StatusCancelled: true,
}

type Service struct {
	appointments AppointmentRepository
}

func NewService(appointments AppointmentRepository) *Service {
	return &Service{appointments: appointments}
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = DefaultDurationMinutes
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if a.Status != StatusScheduled {
		return fmt.Errorf("new appointments must start as %s", StatusScheduled)
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// UpdateAppointment changes reschedulable details. Status changes go through
// TransitionStatus so the forward-only rule cannot be bypassed.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, upd *Appointment) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.IsTerminal() {
		return nil, fmt.Errorf("appointment is %s: %w", a.Status, ErrInvalidTransition)
	}
	if !upd.ScheduledAt.IsZero() {
		a.ScheduledAt = upd.ScheduledAt
	}
	if upd.DurationMinutes > 0 {
		a.DurationMinutes = upd.DurationMinutes
	}
	if upd.Reason != nil {
		a.Reason = upd.Reason
	}
	if upd.Notes != nil {
		a.Notes = upd.Notes
	}
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// TransitionStatus moves an appointment to the next status, enforcing the
// forward-only lifecycle.
func (s *Service) TransitionStatus(ctx context.Context, id uuid.UUID, next string) (*Appointment, error) {
	if !validStatuses[next] {
		return nil, fmt.Errorf("invalid appointment status: %s", next)
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == next {
		return a, nil
	}
	if !a.CanTransition(next) {
		return nil, fmt.Errorf("cannot move appointment from %s to %s: %w", a.Status, next, ErrInvalidTransition)
	}
	a.Status = next
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel cancels a non-terminal appointment.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.TransitionStatus(ctx, id, StatusCancelled)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) SearchAppointments(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	if status, ok := params["status"]; ok && !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid appointment status: %s", status)
	}
	return s.appointments.Search(ctx, params, limit, offset)
}
