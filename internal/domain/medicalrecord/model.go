// Package medicalrecord manages the longitudinal record entries of a patient.
package medicalrecord

import (
	"time"

	"github.com/google/uuid"
)

// Record maps to the medical_records table.
type Record struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID       uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	ConsultationID *uuid.UUID `db:"consultation_id" json:"consultation_id,omitempty"`
	Date           time.Time  `db:"date" json:"date"`
	Diagnosis      string     `db:"diagnosis" json:"diagnosis"`
	Treatment      *string    `db:"treatment" json:"treatment,omitempty"`
	Prescription   *string    `db:"prescription" json:"prescription,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
