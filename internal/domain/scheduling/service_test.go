package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockApptRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.appts[a.ID] = a
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockApptRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appts[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockApptRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.appts[id]; !ok {
		return ErrNotFound
	}
	delete(m.appts, id)
	return nil
}

func (m *mockApptRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if v, ok := params["doctor_id"]; ok && a.DoctorID.String() != v {
			continue
		}
		if v, ok := params["patient_id"]; ok && a.PatientID.String() != v {
			continue
		}
		if v, ok := params["status"]; ok && a.Status != v {
			continue
		}
		result = append(result, a)
	}
	return result, len(result), nil
}

func newTestAppointment() *Appointment {
	return &Appointment{
		DoctorID:    uuid.New(),
		PatientID:   uuid.New(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
	}
}

// -- Tests --

func TestCreateAppointmentDefaults(t *testing.T) {
	svc := NewService(newMockApptRepo())

	a := newTestAppointment()
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("status = %q, want %q", a.Status, StatusScheduled)
	}
	if a.DurationMinutes != DefaultDurationMinutes {
		t.Errorf("duration = %d, want %d", a.DurationMinutes, DefaultDurationMinutes)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc := NewService(newMockApptRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		appt *Appointment
	}{
		{"missing doctor", &Appointment{PatientID: uuid.New(), ScheduledAt: time.Now()}},
		{"missing patient", &Appointment{DoctorID: uuid.New(), ScheduledAt: time.Now()}},
		{"missing time", &Appointment{DoctorID: uuid.New(), PatientID: uuid.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.CreateAppointment(ctx, tt.appt); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateAppointmentRejectsNonScheduledStatus(t *testing.T) {
	svc := NewService(newMockApptRepo())
	a := newTestAppointment()
	a.Status = StatusCompleted
	if err := svc.CreateAppointment(context.Background(), a); err == nil {
		t.Error("expected error for status other than SCHEDULED")
	}
}

func TestTransitionStatusForwardOnly(t *testing.T) {
	svc := NewService(newMockApptRepo())
	ctx := context.Background()

	a := newTestAppointment()
	if err := svc.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	if _, err := svc.TransitionStatus(ctx, a.ID, StatusInProgress); err != nil {
		t.Fatalf("SCHEDULED -> IN_PROGRESS: %v", err)
	}
	if _, err := svc.TransitionStatus(ctx, a.ID, StatusCompleted); err != nil {
		t.Fatalf("IN_PROGRESS -> COMPLETED: %v", err)
	}

	// Terminal state rejects any further movement.
	if _, err := svc.TransitionStatus(ctx, a.ID, StatusInProgress); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionStatusSkipRejected(t *testing.T) {
	svc := NewService(newMockApptRepo())
	ctx := context.Background()

	a := newTestAppointment()
	if err := svc.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	if _, err := svc.TransitionStatus(ctx, a.ID, StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SCHEDULED -> COMPLETED should fail, got %v", err)
	}
}

func TestTransitionStatusIdempotentSameStatus(t *testing.T) {
	svc := NewService(newMockApptRepo())
	ctx := context.Background()

	a := newTestAppointment()
	if err := svc.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	got, err := svc.TransitionStatus(ctx, a.ID, StatusScheduled)
	if err != nil {
		t.Fatalf("same-status transition: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Errorf("status = %q", got.Status)
	}
}

func TestCancelFromInProgress(t *testing.T) {
	svc := NewService(newMockApptRepo())
	ctx := context.Background()

	a := newTestAppointment()
	if err := svc.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if _, err := svc.TransitionStatus(ctx, a.ID, StatusInProgress); err != nil {
		t.Fatalf("start: %v", err)
	}

	got, err := svc.Cancel(ctx, a.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Errorf("status = %q, want CANCELLED", got.Status)
	}

	// Cancelled is terminal.
	if _, err := svc.TransitionStatus(ctx, a.ID, StatusInProgress); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition after cancel, got %v", err)
	}
}

func TestUpdateAppointmentTerminalRejected(t *testing.T) {
	svc := NewService(newMockApptRepo())
	ctx := context.Background()

	a := newTestAppointment()
	if err := svc.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	later := time.Now().Add(48 * time.Hour)
	if _, err := svc.UpdateAppointment(ctx, a.ID, &Appointment{ScheduledAt: later}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSearchAppointmentsByDoctor(t *testing.T) {
	repo := newMockApptRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doctor := uuid.New()
	for i := 0; i < 3; i++ {
		a := newTestAppointment()
		if i < 2 {
			a.DoctorID = doctor
		}
		if err := svc.CreateAppointment(ctx, a); err != nil {
			t.Fatalf("CreateAppointment: %v", err)
		}
	}

	items, total, err := svc.SearchAppointments(ctx, map[string]string{"doctor_id": doctor.String()}, 20, 0)
	if err != nil {
		t.Fatalf("SearchAppointments: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("got %d appointments, want 2", len(items))
	}
}

func TestSearchAppointmentsInvalidStatus(t *testing.T) {
	svc := NewService(newMockApptRepo())
	if _, _, err := svc.SearchAppointments(context.Background(), map[string]string{"status": "PAUSED"}, 20, 0); err == nil {
		t.Error("expected error for unknown status filter")
	}
}
