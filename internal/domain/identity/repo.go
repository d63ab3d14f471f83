package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned when creating or updating a user with an email
// address that another user already owns.
var ErrEmailTaken = errors.New("email already in use")

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params map[string]string, limit, offset int) ([]*User, int, error)
}

// StatsRepository counts the appointments and consultations a user appears in.
// It is kept out of UserRepository because the counts span other domains'
// tables and in-memory implementations rarely need them.
type StatsRepository interface {
	Stats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
}
