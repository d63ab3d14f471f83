// Package settings holds the platform-wide configuration row managed from the
// admin panel.
package settings

import (
	"time"

	"github.com/google/uuid"
)

// SystemSettings is the single row of admin-tunable configuration.
// CancellationDeadline is the number of hours before the appointment after
// which cancelling is no longer allowed.
type SystemSettings struct {
	ID                         uuid.UUID `db:"id" json:"id"`
	ConsultationPrice          float64   `db:"consultation_price" json:"consultation_price"`
	Currency                   string    `db:"currency" json:"currency"`
	Timezone                   string    `db:"timezone" json:"timezone"`
	AppointmentDurationMinutes int       `db:"appointment_duration_minutes" json:"appointment_duration_minutes"`
	AllowCancellation          bool      `db:"allow_cancellation" json:"allow_cancellation"`
	CancellationDeadline       int       `db:"cancellation_deadline" json:"cancellation_deadline"`
	UpdatedAt                  time.Time `db:"updated_at" json:"updated_at"`
}

// Defaults returns the settings used until an admin saves their own.
func Defaults() *SystemSettings {
	return &SystemSettings{
		ConsultationPrice:          50.0,
		Currency:                   "USD",
		Timezone:                   "America/New_York",
		AppointmentDurationMinutes: 60,
		AllowCancellation:          true,
		CancellationDeadline:       24,
	}
}
