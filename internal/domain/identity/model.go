// Package identity manages the users of the platform: doctors, patients and
// administrators.
package identity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleDoctor  = "DOCTOR"
	RolePatient = "PATIENT"
	RoleAdmin   = "ADMIN"
)

// User maps to the users table.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserStats counts the activity linked to a user, shown on the admin
// dashboard next to the profile.
type UserStats struct {
	AppointmentCount  int `json:"appointment_count"`
	ConsultationCount int `json:"consultation_count"`
}

// IsDoctor reports whether the user holds the doctor role.
func (u *User) IsDoctor() bool { return u.Role == RoleDoctor }

// IsPatient reports whether the user holds the patient role.
func (u *User) IsPatient() bool { return u.Role == RolePatient }

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
