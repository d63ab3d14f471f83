package settings

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// Get returns the stored settings, falling back to defaults when an admin has
// never saved any.
func (s *Service) Get(ctx context.Context) (*SystemSettings, error) {
	stored, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// UpdateInput carries the fields an admin may change. Nil fields keep the
// current value.
type UpdateInput struct {
	ConsultationPrice          *float64 `json:"consultation_price"`
	Currency                   *string  `json:"currency"`
	Timezone                   *string  `json:"timezone"`
	AppointmentDurationMinutes *int     `json:"appointment_duration_minutes"`
	AllowCancellation          *bool    `json:"allow_cancellation"`
	CancellationDeadline       *int     `json:"cancellation_deadline"`
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*SystemSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if in.ConsultationPrice != nil {
		if *in.ConsultationPrice < 0 {
			return nil, fmt.Errorf("consultation price cannot be negative")
		}
		current.ConsultationPrice = *in.ConsultationPrice
	}
	if in.Currency != nil {
		if len(*in.Currency) != 3 {
			return nil, fmt.Errorf("currency must be a 3-letter code")
		}
		current.Currency = *in.Currency
	}
	if in.Timezone != nil {
		if _, err := time.LoadLocation(*in.Timezone); err != nil {
			return nil, fmt.Errorf("unknown timezone %q", *in.Timezone)
		}
		current.Timezone = *in.Timezone
	}
	if in.AppointmentDurationMinutes != nil {
		if *in.AppointmentDurationMinutes < 5 || *in.AppointmentDurationMinutes > 240 {
			return nil, fmt.Errorf("appointment duration must be between 5 and 240 minutes")
		}
		current.AppointmentDurationMinutes = *in.AppointmentDurationMinutes
	}
	if in.AllowCancellation != nil {
		current.AllowCancellation = *in.AllowCancellation
	}
	if in.CancellationDeadline != nil {
		if *in.CancellationDeadline < 1 || *in.CancellationDeadline > 168 {
			return nil, fmt.Errorf("cancellation deadline must be between 1 and 168 hours")
		}
		current.CancellationDeadline = *in.CancellationDeadline
	}

	if err := s.repo.Save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}
