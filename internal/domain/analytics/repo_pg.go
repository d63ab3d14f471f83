package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Upsert(ctx context.Context, s *Snapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO analytics (id, date, total_appointments, completed_consultations,
			cancelled_appointments, active_users, total_revenue, avg_duration_minutes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (date) DO UPDATE SET
			total_appointments = EXCLUDED.total_appointments,
			completed_consultations = EXCLUDED.completed_consultations,
			cancelled_appointments = EXCLUDED.cancelled_appointments,
			active_users = EXCLUDED.active_users,
			total_revenue = EXCLUDED.total_revenue,
			avg_duration_minutes = EXCLUDED.avg_duration_minutes`,
		s.ID, s.Date, s.TotalAppointments, s.CompletedConsultations,
		s.CancelledAppointments, s.ActiveUsers, s.TotalRevenue, s.AvgDurationMinutes)
	return err
}

func (r *repoPG) Range(ctx context.Context, days int) ([]*Snapshot, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, date, total_appointments, completed_consultations,
			cancelled_appointments, active_users, total_revenue, avg_duration_minutes, created_at
		FROM analytics
		WHERE date >= CURRENT_DATE - INTERVAL '%d days'
		ORDER BY date ASC`, days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Date, &s.TotalAppointments, &s.CompletedConsultations,
			&s.CancelledAppointments, &s.ActiveUsers, &s.TotalRevenue, &s.AvgDurationMinutes, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}
