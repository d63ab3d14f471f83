package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingsCols = `id, consultation_price, currency, timezone,
	appointment_duration_minutes, allow_cancellation, cancellation_deadline, updated_at`

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Get(ctx context.Context) (*SystemSettings, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+settingsCols+` FROM system_settings ORDER BY updated_at DESC LIMIT 1`)

	var s SystemSettings
	err := row.Scan(&s.ID, &s.ConsultationPrice, &s.Currency, &s.Timezone,
		&s.AppointmentDurationMinutes, &s.AllowCancellation, &s.CancellationDeadline, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Save(ctx context.Context, s *SystemSettings) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO system_settings (id, consultation_price, currency, timezone,
			appointment_duration_minutes, allow_cancellation, cancellation_deadline, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		ON CONFLICT (id) DO UPDATE SET
			consultation_price = EXCLUDED.consultation_price,
			currency = EXCLUDED.currency,
			timezone = EXCLUDED.timezone,
			appointment_duration_minutes = EXCLUDED.appointment_duration_minutes,
			allow_cancellation = EXCLUDED.allow_cancellation,
			cancellation_deadline = EXCLUDED.cancellation_deadline,
			updated_at = NOW()
		RETURNING updated_at`,
		s.ID, s.ConsultationPrice, s.Currency, s.Timezone,
		s.AppointmentDurationMinutes, s.AllowCancellation, s.CancellationDeadline).
		Scan(&s.UpdatedAt)
}
