// Package consultation manages consultation sessions, their clinical fields
// and the documents attached to them. A consultation belongs to exactly one
// appointment and at most one consultation may exist per appointment.
package consultation

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Document kinds attachable to a consultation.
const (
	DocReport       = "report"
	DocPrescription = "prescription"
	DocInstructions = "instructions"
	DocUpload       = "upload"
)

// Document is one attachment on a consultation. The list is stored as JSONB
// on the consultation row and guarded by the documents version counter.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Consultation maps to the consultations table.
type Consultation struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	AppointmentID    uuid.UUID  `db:"appointment_id" json:"appointment_id"`
	DoctorID         uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	Status           string     `db:"status" json:"status"`
	StartedAt        time.Time  `db:"started_at" json:"started_at"`
	EndedAt          *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	Symptoms         *string    `db:"symptoms" json:"symptoms,omitempty"`
	Diagnosis        *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Treatment        *string    `db:"treatment" json:"treatment,omitempty"`
	Prescription     *string    `db:"prescription" json:"prescription,omitempty"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	Documents        []Document `db:"documents" json:"documents"`
	DocumentsVersion int        `db:"documents_version" json:"documents_version"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// DurationMinutes returns the elapsed consultation time, using now for
// consultations that have not ended yet.
func (c *Consultation) DurationMinutes(now time.Time) int {
	end := now
	if c.EndedAt != nil {
		end = *c.EndedAt
	}
	return int(end.Sub(c.StartedAt).Minutes())
}

// Detail is a consultation joined with the names and contact details of its
// participants, used for document generation and delivery.
type Detail struct {
	Consultation
	PatientName  string  `json:"patient_name"`
	PatientEmail string  `json:"patient_email"`
	PatientPhone *string `json:"patient_phone,omitempty"`
	DoctorName   string  `json:"doctor_name"`
}

// HasData reports which clinical sections carry content, used by clients to
// decide which documents can be generated.
type HasData struct {
	Symptoms     bool `json:"symptoms"`
	Diagnosis    bool `json:"diagnosis"`
	Treatment    bool `json:"treatment"`
	Prescription bool `json:"prescription"`
	Notes        bool `json:"notes"`
}

func (c *Consultation) HasData() HasData {
	filled := func(s *string) bool { return s != nil && *s != "" }
	return HasData{
		Symptoms:     filled(c.Symptoms),
		Diagnosis:    filled(c.Diagnosis),
		Treatment:    filled(c.Treatment),
		Prescription: filled(c.Prescription),
		Notes:        filled(c.Notes),
	}
}
