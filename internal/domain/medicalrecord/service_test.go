package medicalrecord

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRecordRepo struct {
	records map[uuid.UUID]*Record
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[uuid.UUID]*Record)}
}

func (m *mockRecordRepo) Create(_ context.Context, rec *Record) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()
	m.records[rec.ID] = rec
	return nil
}

func (m *mockRecordRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (m *mockRecordRepo) Update(_ context.Context, rec *Record) error {
	if _, ok := m.records[rec.ID]; !ok {
		return ErrNotFound
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *mockRecordRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockRecordRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var result []*Record
	for _, rec := range m.records {
		if rec.PatientID == patientID {
			result = append(result, rec)
		}
	}
	return result, len(result), nil
}

func TestCreateRecord(t *testing.T) {
	svc := NewService(newMockRecordRepo())

	rec := &Record{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Diagnosis: "Hipertensión arterial",
	}
	if err := svc.CreateRecord(context.Background(), rec); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if rec.Date.IsZero() {
		t.Error("expected date to default to now")
	}
}

func TestCreateRecordValidation(t *testing.T) {
	svc := NewService(newMockRecordRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		rec  *Record
	}{
		{"missing patient", &Record{DoctorID: uuid.New(), Diagnosis: "X"}},
		{"missing doctor", &Record{PatientID: uuid.New(), Diagnosis: "X"}},
		{"missing diagnosis", &Record{PatientID: uuid.New(), DoctorID: uuid.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.CreateRecord(ctx, tt.rec); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestListByPatient(t *testing.T) {
	svc := NewService(newMockRecordRepo())
	ctx := context.Background()

	patient := uuid.New()
	doctor := uuid.New()
	for i := 0; i < 2; i++ {
		rec := &Record{PatientID: patient, DoctorID: doctor, Diagnosis: "Gripe"}
		if err := svc.CreateRecord(ctx, rec); err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
	}
	other := &Record{PatientID: uuid.New(), DoctorID: doctor, Diagnosis: "Otitis"}
	if err := svc.CreateRecord(ctx, other); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	items, total, err := svc.ListByPatient(ctx, patient, 20, 0)
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("got %d records, want 2", len(items))
	}
}
