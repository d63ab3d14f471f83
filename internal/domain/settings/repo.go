package settings

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no settings row exists yet.
var ErrNotFound = errors.New("settings not found")

type Repository interface {
	Get(ctx context.Context) (*SystemSettings, error)
	Save(ctx context.Context, s *SystemSettings) error
}
