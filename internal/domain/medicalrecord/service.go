package medicalrecord

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	records Repository
}

func NewService(records Repository) *Service {
	return &Service{records: records}
}

func (s *Service) CreateRecord(ctx context.Context, rec *Record) error {
	if rec.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if rec.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if rec.Diagnosis == "" {
		return fmt.Errorf("diagnosis is required")
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now()
	}
	return s.records.Create(ctx, rec)
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) UpdateRecord(ctx context.Context, rec *Record) error {
	if rec.Diagnosis == "" {
		return fmt.Errorf("diagnosis is required")
	}
	return s.records.Update(ctx, rec)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.records.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.records.ListByPatient(ctx, patientID, limit, offset)
}
