// Package scheduling manages appointments between doctors and patients.
package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. An appointment moves forward only: scheduled to
// in-progress to completed. Cancellation is allowed from the two non-terminal
// states. COMPLETED and CANCELLED are terminal.
const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

const DefaultDurationMinutes = 30

// Appointment maps to the appointments table.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Status          string    `db:"status" json:"status"`
	Reason          *string   `db:"reason" json:"reason,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether the appointment is in a final state.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

var allowedTransitions = map[string]map[string]bool{
	StatusScheduled: {
		StatusInProgress: true,
		StatusCancelled:  true,
	},
	StatusInProgress: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
}

// CanTransition reports whether moving from the current status to next is a
// legal forward move.
func (a *Appointment) CanTransition(next string) bool {
	return allowedTransitions[a.Status][next]
}
