package analytics

import (
	"context"
	"fmt"
	"math"
	"time"
)

const DefaultRangeDays = 30

type Service struct {
	snapshots Repository
}

func NewService(snapshots Repository) *Service {
	return &Service{snapshots: snapshots}
}

func (s *Service) Record(ctx context.Context, snap *Snapshot) error {
	if snap.Date.IsZero() {
		snap.Date = time.Now().Truncate(24 * time.Hour)
	}
	if snap.TotalAppointments < 0 || snap.ActiveUsers < 0 || snap.TotalRevenue < 0 {
		return fmt.Errorf("counts cannot be negative")
	}
	return s.snapshots.Upsert(ctx, snap)
}

func (s *Service) Range(ctx context.Context, days int) ([]*Snapshot, error) {
	if days <= 0 {
		days = DefaultRangeDays
	}
	return s.snapshots.Range(ctx, days)
}

// Summarize aggregates the last n days. Rates are percentages of total
// appointments, rounded to one decimal.
func (s *Service) Summarize(ctx context.Context, days int) (*Summary, error) {
	if days <= 0 {
		days = DefaultRangeDays
	}
	snaps, err := s.snapshots.Range(ctx, days)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Days: days}
	var durationTotal float64
	var durationSamples int
	for _, snap := range snaps {
		sum.TotalAppointments += snap.TotalAppointments
		sum.CompletedConsultations += snap.CompletedConsultations
		sum.CancelledAppointments += snap.CancelledAppointments
		sum.TotalRevenue += snap.TotalRevenue
		if snap.ActiveUsers > sum.PeakActiveUsers {
			sum.PeakActiveUsers = snap.ActiveUsers
		}
		if snap.AvgDurationMinutes > 0 {
			durationTotal += snap.AvgDurationMinutes
			durationSamples++
		}
	}
	if durationSamples > 0 {
		sum.AvgDurationMinutes = round1(durationTotal / float64(durationSamples))
	}
	if sum.TotalAppointments > 0 {
		sum.CompletionRate = round1(float64(sum.CompletedConsultations) / float64(sum.TotalAppointments) * 100)
		sum.CancellationRate = round1(float64(sum.CancelledAppointments) / float64(sum.TotalAppointments) * 100)
	}
	return sum, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
