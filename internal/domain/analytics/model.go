// Package analytics records daily platform activity snapshots and aggregates
// them for the admin dashboard.
package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one day of platform activity, mapped to the analytics table.
type Snapshot struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	Date                   time.Time `db:"date" json:"date"`
	TotalAppointments      int       `db:"total_appointments" json:"total_appointments"`
	CompletedConsultations int       `db:"completed_consultations" json:"completed_consultations"`
	CancelledAppointments  int       `db:"cancelled_appointments" json:"cancelled_appointments"`
	ActiveUsers            int       `db:"active_users" json:"active_users"`
	TotalRevenue           float64   `db:"total_revenue" json:"total_revenue"`
	AvgDurationMinutes     float64   `db:"avg_duration_minutes" json:"avg_duration_minutes"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
}

// Summary aggregates a range of snapshots.
type Summary struct {
	Days                   int     `json:"days"`
	TotalAppointments      int     `json:"total_appointments"`
	CompletedConsultations int     `json:"completed_consultations"`
	CancelledAppointments  int     `json:"cancelled_appointments"`
	TotalRevenue           float64 `json:"total_revenue"`
	PeakActiveUsers        int     `json:"peak_active_users"`
	AvgDurationMinutes     float64 `json:"avg_duration_minutes"`
	CompletionRate         float64 `json:"completion_rate"`
	CancellationRate       float64 `json:"cancellation_rate"`
}
