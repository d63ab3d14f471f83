package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentGateway is the slice of the scheduling domain the consultation
// service needs: looking up an appointment and moving it along its lifecycle.
type AppointmentGateway interface {
	Get(ctx context.Context, id uuid.UUID) (doctorID, patientID uuid.UUID, status string, err error)
	MarkInProgress(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo         Repository
	appointments AppointmentGateway
	now          func() time.Time
}

func NewService(repo Repository, appointments AppointmentGateway) *Service {
	return &Service{repo: repo, appointments: appointments, now: time.Now}
}

// StartForAppointment starts a consultation for the appointment, or returns
// the existing one. Starting is idempotent: two concurrent starts converge on
// the same consultation because the appointment can hold only one.
func (s *Service) StartForAppointment(ctx context.Context, appointmentID uuid.UUID) (*Consultation, error) {
	if existing, err := s.repo.GetByAppointment(ctx, appointmentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	doctorID, patientID, status, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointment %s: %w", appointmentID, err)
	}
	if status == "COMPLETED" || status == "CANCELLED" {
		return nil, fmt.Errorf("appointment is %s, cannot start consultation", status)
	}

	c := &Consultation{
		AppointmentID: appointmentID,
		DoctorID:      doctorID,
		PatientID:     patientID,
		Status:        StatusInProgress,
		StartedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			// Lost the race. The winner's row is the consultation.
			return s.repo.GetByAppointment(ctx, appointmentID)
		}
		return nil, err
	}

	if status != "IN_PROGRESS" {
		if err := s.appointments.MarkInProgress(ctx, appointmentID); err != nil {
			return nil, fmt.Errorf("mark appointment in progress: %w", err)
		}
	}
	return c, nil
}

func (s *Service) GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Consultation, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}

func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	return s.repo.Detail(ctx, id)
}

// UpdateFields holds a partial update to the clinical fields and status. Nil
// pointers leave the stored value untouched.
type UpdateFields struct {
	Symptoms     *string `json:"symptoms"`
	Diagnosis    *string `json:"diagnosis"`
	Treatment    *string `json:"treatment"`
	Prescription *string `json:"prescription"`
	Notes        *string `json:"notes"`
	Status       *string `json:"status"`
}

// UpdateConsultation applies a partial update. Setting the status to COMPLETED
// ends the consultation and completes its appointment, same as Complete.
func (s *Service) UpdateConsultation(ctx context.Context, id uuid.UUID, upd UpdateFields) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Symptoms != nil {
		c.Symptoms = upd.Symptoms
	}
	if upd.Diagnosis != nil {
		c.Diagnosis = upd.Diagnosis
	}
	if upd.Treatment != nil {
		c.Treatment = upd.Treatment
	}
	if upd.Prescription != nil {
		c.Prescription = upd.Prescription
	}
	if upd.Notes != nil {
		c.Notes = upd.Notes
	}

	completing := false
	if upd.Status != nil {
		switch *upd.Status {
		case StatusInProgress, StatusCompleted, StatusCancelled:
		default:
			return nil, fmt.Errorf("unknown consultation status %q", *upd.Status)
		}
		if *upd.Status == StatusCompleted && c.Status != StatusCompleted {
			now := s.now()
			c.EndedAt = &now
			completing = true
		}
		c.Status = *upd.Status
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if completing {
		if err := s.appointments.MarkCompleted(ctx, c.AppointmentID); err != nil {
			return nil, fmt.Errorf("complete appointment: %w", err)
		}
	}
	return c, nil
}

// Complete ends the consultation and completes its appointment. Completing an
// already completed consultation is a no-op.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusCompleted {
		return c, nil
	}

	now := s.now()
	c.Status = StatusCompleted
	c.EndedAt = &now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if err := s.appointments.MarkCompleted(ctx, c.AppointmentID); err != nil {
		return nil, fmt.Errorf("complete appointment: %w", err)
	}
	return c, nil
}

// ListDocuments returns the attachment list together with the version token
// that must accompany the next mutation.
func (s *Service) ListDocuments(ctx context.Context, id uuid.UUID) ([]Document, int, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return c.Documents, c.DocumentsVersion, nil
}

func (s *Service) AddDocument(ctx context.Context, id uuid.UUID, doc Document, expectedVersion int) (*Consultation, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("document name is required")
	}
	if doc.Kind == "" {
		doc.Kind = DocUpload
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = s.now()
	docs := append(append([]Document{}, c.Documents...), doc)
	return s.repo.UpdateDocuments(ctx, id, docs, expectedVersion)
}

func (s *Service) RemoveDocument(ctx context.Context, id, docID uuid.UUID, expectedVersion int) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(c.Documents))
	found := false
	for _, d := range c.Documents {
		if d.ID == docID {
			found = true
			continue
		}
		docs = append(docs, d)
	}
	if !found {
		return nil, fmt.Errorf("document %s: %w", docID, ErrNotFound)
	}
	return s.repo.UpdateDocuments(ctx, id, docs, expectedVersion)
}

func (s *Service) SearchConsultations(ctx context.Context, params map[string]string, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}
