package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/summari/telemed/internal/config"
	"github.com/summari/telemed/internal/domain/identity"
	"github.com/summari/telemed/internal/domain/scheduling"
	"github.com/summari/telemed/internal/domain/settings"
	"github.com/summari/telemed/internal/platform/db"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo users and appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return seed(ctx, pool)
		},
	}
}

func strptr(s string) *string { return &s }

func seed(ctx context.Context, pool *pgxpool.Pool) error {
	identitySvc := identity.NewService(identity.NewUserRepoPG(pool))
	schedulingSvc := scheduling.NewService(scheduling.NewAppointmentRepoPG(pool))
	settingsSvc := settings.NewService(settings.NewRepoPG(pool))

	users := []*identity.User{
		{Email: "maria.gonzalez@summari.com", Name: "Dr. María González", Role: identity.RoleDoctor, Specialty: strptr("Medicina General"), Phone: strptr("+34600111222")},
		{Email: "carlos.rodriguez@summari.com", Name: "Dr. Carlos Rodríguez", Role: identity.RoleDoctor, Specialty: strptr("Cardiología"), Phone: strptr("+34600333444")},
		{Email: "ana.martinez@example.com", Name: "Ana Martínez", Role: identity.RolePatient, Phone: strptr("+34611222333")},
		{Email: "juan.perez@example.com", Name: "Juan Pérez", Role: identity.RolePatient, Phone: strptr("+34611444555")},
		{Email: "sofia.lopez@example.com", Name: "Sofia López", Role: identity.RolePatient, Phone: strptr("+34611666777")},
		{Email: "admin@summari.com", Name: "Administrador", Role: identity.RoleAdmin},
	}
	created := 0
	for _, u := range users {
		if err := identitySvc.CreateUser(ctx, u); err != nil {
			if errors.Is(err, identity.ErrEmailTaken) {
				existing, lookupErr := identitySvc.GetUserByEmail(ctx, u.Email)
				if lookupErr != nil {
					return lookupErr
				}
				*u = *existing
				continue
			}
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		created++
	}
	fmt.Printf("Seeded %d user(s).\n", created)

	doctors := users[:2]
	patients := users[2:5]
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	appointments := []*scheduling.Appointment{
		{DoctorID: doctors[0].ID, PatientID: patients[0].ID, ScheduledAt: base, Reason: strptr("Dolor de garganta y fiebre")},
		{DoctorID: doctors[0].ID, PatientID: patients[1].ID, ScheduledAt: base.Add(time.Hour), Reason: strptr("Revisión general anual")},
		{DoctorID: doctors[1].ID, PatientID: patients[2].ID, ScheduledAt: base.Add(2 * time.Hour), DurationMinutes: 45, Reason: strptr("Control de tensión arterial")},
	}
	for _, a := range appointments {
		if err := schedulingSvc.CreateAppointment(ctx, a); err != nil {
			return fmt.Errorf("seed appointment: %w", err)
		}
	}
	fmt.Printf("Seeded %d appointment(s).\n", len(appointments))

	// Persist the default settings row so the admin panel starts populated.
	if _, err := settingsSvc.Update(ctx, settings.UpdateInput{}); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	fmt.Println("Seeded default settings.")
	return nil
}
