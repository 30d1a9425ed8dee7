package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"costaverde/internal/clock"
	"costaverde/internal/db"
	"costaverde/internal/lifecycle"
)

// JobStore is the surface the background job needs.
type JobStore interface {
	ListElapsedActiveRentals(ctx context.Context, now time.Time) ([]*db.Reservation, error)
	UpdateReservationStatuses(ctx context.Context, ids []int, newStatus string, updatedAt time.Time) error
}

type JobService struct {
	store  JobStore
	clock  clock.Clock
	logger zerolog.Logger
}

func NewJobService(store JobStore, clk clock.Clock, logger zerolog.Logger) *JobService {
	return &JobService{
		store:  store,
		clock:  clk,
		logger: logger.With().Str("component", "job_service").Logger(),
	}
}

// CompleteElapsedRentals marks vehicle rentals still active past their return
// time as completed, through the same transition table staff overrides use.
func (s *JobService) CompleteElapsedRentals(ctx context.Context) error {
	now := s.clock.Now()
	rentals, err := s.store.ListElapsedActiveRentals(ctx, now)
	if err != nil {
		return fmt.Errorf("job: listing elapsed rentals: %w", err)
	}
	if len(rentals) == 0 {
		return nil
	}

	var ids []int
	for _, r := range rentals {
		if err := lifecycle.CheckStatus(r.ResourceKind, r.Status, db.StatusCompleted); err != nil {
			s.logger.Warn().Err(err).Str("code", r.Code).Msg("skipping rental with unexpected status")
			continue
		}
		ids = append(ids, r.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.store.UpdateReservationStatuses(ctx, ids, db.StatusCompleted, now); err != nil {
		return fmt.Errorf("job: completing rentals: %w", err)
	}
	s.logger.Info().Int("count", len(ids)).Msg("completed elapsed vehicle rentals")
	return nil
}
