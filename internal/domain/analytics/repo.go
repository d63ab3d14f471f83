package analytics

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no snapshot matches the lookup.
var ErrNotFound = errors.New("snapshot not found")

type Repository interface {
	// Upsert stores the snapshot for its date, replacing an existing one.
	Upsert(ctx context.Context, s *Snapshot) error
	// Range returns the snapshots for the last n days, oldest first.
	Range(ctx context.Context, days int) ([]*Snapshot, error)
}
