package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"costaverde/internal/clock"
	"costaverde/internal/db"
	"costaverde/internal/entities"
	apperrors "costaverde/internal/errors"
	"costaverde/internal/interval"
	"costaverde/internal/lifecycle"
	"costaverde/internal/pricing"
	"costaverde/internal/schedule"
)

// maxReserveAttempts bounds retries of a reserve transaction after a lost
// storage race. Each retry re-runs the full overlap check.
const maxReserveAttempts = 3

// Store is the persistence surface the reservation engine needs. Both the
// Postgres and the in-memory store satisfy it; WithTx must make the
// check-then-insert of a reserve attempt atomic per resource.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetResource(ctx context.Context, id string) (*db.Resource, error)
	GetResourceForUpdate(ctx context.Context, id string) (*db.Resource, error)
	ListActiveIntervals(ctx context.Context, resourceID string) ([]interval.Interval, error)
	CreateReservation(ctx context.Context, res *db.Reservation) error
	GetReservationByCode(ctx context.Context, code string) (*db.Reservation, error)
	GetReservationForUpdate(ctx context.Context, code string) (*db.Reservation, error)
	UpdateReservationStatus(ctx context.Context, code, status string, updatedAt time.Time) error
	UpdateReservationPayment(ctx context.Context, code, paymentStatus string, depositReturned bool, updatedAt time.Time) error
	ListReservations(ctx context.Context, filter entities.ReservationFilter) ([]*db.Reservation, error)
}

// Notifier delivers reservation updates to guests. Implementations must not
// block the engine; failures are logged, never surfaced.
type Notifier interface {
	ReservationCreated(res *entities.ReservationResponse)
	ReservationCancelled(res *entities.ReservationResponse)
}

type ReservationService struct {
	store    Store
	clock    clock.Clock
	notifier Notifier
	logger   zerolog.Logger
}

func NewReservationService(store Store, clk clock.Clock, notifier Notifier, logger zerolog.Logger) *ReservationService {
	return &ReservationService{
		store:    store,
		clock:    clk,
		notifier: notifier,
		logger:   logger.With().Str("component", "reservation_service").Logger(),
	}
}

// CheckAvailability reports whether a resource is free for the requested
// interval, with the exact busy sub-ranges when it is not. Read-only; may be
// briefly stale under concurrent writes.
func (s *ReservationService) CheckAvailability(ctx context.Context, resourceID string, start, end time.Time) (*entities.AvailabilityResponse, error) {
	iv, err := interval.New(start, end)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetResource(ctx, resourceID); err != nil {
		return nil, err
	}
	active, err := s.store.ListActiveIntervals(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("checking availability: %w", err)
	}
	conflicts := schedule.FindConflicts(iv, active)

	resp := &entities.AvailabilityResponse{
		ResourceID:         resourceID,
		RequestedStartTime: iv.Start,
		RequestedEndTime:   iv.End,
		IsAvailable:        len(conflicts) == 0,
	}
	for _, c := range conflicts {
		resp.ConflictingRanges = append(resp.ConflictingRanges, entities.ConflictRange{Start: c.Start, End: c.End})
	}
	for _, d := range schedule.BusyDays(conflicts) {
		resp.ConflictingDates = append(resp.ConflictingDates, d.Format("2006-01-02"))
	}
	return resp, nil
}

// CreateReservation runs the atomic reserve-or-reject path for an online
// booking: validate the interval, lock the resource, re-check overlaps, stamp
// pricing and persist in pending/unpaid.
func (s *ReservationService) CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*entities.ReservationResponse, error) {
	if req.GuestName == "" || req.GuestEmail == "" {
		return nil, apperrors.NewHTTPError(400, "guest name and email are required")
	}
	return s.reserve(ctx, req.ResourceID, req.StartTime, req.EndTime, func(res *db.Reservation) {
		res.GuestName = req.GuestName
		res.GuestEmail = req.GuestEmail
		res.GuestPhone = req.GuestPhone
		res.GuestCount = req.GuestCount
		res.SpecialRequests = req.SpecialRequests
		res.Source = db.SourceOnline
	})
}

// CreateWalkIn blocks an interval for a staff-entered booking. It occupies
// the schedule exactly like an online reservation and differs only in source
// and the absent requester identity.
func (s *ReservationService) CreateWalkIn(ctx context.Context, req *entities.WalkInRequest) (*entities.ReservationResponse, error) {
	return s.reserve(ctx, req.ResourceID, req.StartTime, req.EndTime, func(res *db.Reservation) {
		res.SpecialRequests = req.Note
		res.Source = db.SourceWalkIn
	})
}

func (s *ReservationService) reserve(ctx context.Context, resourceID string, start, end time.Time, fill func(*db.Reservation)) (*entities.ReservationResponse, error) {
	iv, err := interval.New(start, end)
	if err != nil {
		return nil, err
	}

	var created *db.Reservation
	for attempt := 1; attempt <= maxReserveAttempts; attempt++ {
		created, err = s.tryReserve(ctx, resourceID, iv, fill)
		if err != nil && errors.Is(err, apperrors.ErrTransient) {
			s.logger.Warn().Err(err).Str("resource_id", resourceID).Int("attempt", attempt).
				Msg("reserve transaction lost a storage race, retrying")
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	resp := entities.NewReservationResponse(created)
	if s.notifier != nil {
		s.notifier.ReservationCreated(resp)
	}
	s.logger.Info().Str("code", created.Code).Str("resource_id", resourceID).
		Str("source", created.Source).Msg("reservation created")
	return resp, nil
}

// tryReserve is the single correctness-critical operation: under concurrent
// callers targeting the same resource, at most one overlapping attempt may
// succeed. The store serializes us against other attempts (row lock or store
// mutex); the overlap check runs inside that critical section.
func (s *ReservationService) tryReserve(ctx context.Context, resourceID string, iv interval.Interval, fill func(*db.Reservation)) (*db.Reservation, error) {
	var created *db.Reservation
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		resource, err := s.store.GetResourceForUpdate(txCtx, resourceID)
		if err != nil {
			return err
		}
		if !resource.IsAvailable {
			return fmt.Errorf("resource %s: %w", resourceID, apperrors.ErrResourceUnavailable)
		}

		active, err := s.store.ListActiveIntervals(txCtx, resourceID)
		if err != nil {
			return err
		}
		if conflicts := schedule.FindConflicts(iv, active); len(conflicts) > 0 {
			return &schedule.ConflictError{ResourceID: resourceID, Conflicts: conflicts}
		}

		now := s.clock.Now()
		res := &db.Reservation{
			Code:          uuid.NewString(),
			ResourceID:    resource.ID,
			ResourceKind:  resource.Kind,
			StartTime:     iv.Start,
			EndTime:       iv.End,
			Status:        db.StatusPending,
			PaymentStatus: db.PaymentUnpaid,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		fill(res)
		pricing.Stamp(res, *resource, iv)

		if err := s.store.CreateReservation(txCtx, res); err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CancelReservation transitions a reservation to cancelled and releases its
// interval in the same transaction, so a cancelled reservation can never be
// left still holding its dates.
func (s *ReservationService) CancelReservation(ctx context.Context, code string) (*entities.ReservationResponse, error) {
	return s.setStatusTx(ctx, code, db.StatusCancelled)
}

// SetStatus applies a staff status override, validated against the
// per-kind transition table.
func (s *ReservationService) SetStatus(ctx context.Context, code, newStatus string) (*entities.ReservationResponse, error) {
	return s.setStatusTx(ctx, code, newStatus)
}

func (s *ReservationService) setStatusTx(ctx context.Context, code, newStatus string) (*entities.ReservationResponse, error) {
	var updated *db.Reservation
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.store.GetReservationForUpdate(txCtx, code)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckStatus(res.ResourceKind, res.Status, newStatus); err != nil {
			return err
		}
		now := s.clock.Now()
		if err := s.store.UpdateReservationStatus(txCtx, code, newStatus, now); err != nil {
			return err
		}
		res.Status = newStatus
		res.UpdatedAt = now
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := entities.NewReservationResponse(updated)
	if newStatus == db.StatusCancelled && s.notifier != nil {
		s.notifier.ReservationCancelled(resp)
	}
	s.logger.Info().Str("code", code).Str("status", newStatus).Msg("reservation status updated")
	return resp, nil
}

// SetPaymentStatus applies a staff payment override. PaymentStatus may be
// empty to flip only the deposit flag; the deposit can be marked returned
// only once payment has settled.
func (s *ReservationService) SetPaymentStatus(ctx context.Context, code, newPaymentStatus string, depositReturned *bool) (*entities.ReservationResponse, error) {
	var updated *db.Reservation
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.store.GetReservationForUpdate(txCtx, code)
		if err != nil {
			return err
		}

		payment := res.PaymentStatus
		if newPaymentStatus != "" {
			if err := lifecycle.CheckPayment(res.ResourceKind, res.PaymentStatus, newPaymentStatus); err != nil {
				return err
			}
			payment = newPaymentStatus
		}

		deposit := res.DepositReturned
		if depositReturned != nil {
			if res.ResourceKind != db.KindVehicle {
				return apperrors.NewHTTPError(400, "deposit_returned applies to vehicle rentals only")
			}
			if *depositReturned && !lifecycle.CanReturnDeposit(payment) {
				return apperrors.NewHTTPError(422, "deposit can be returned only once payment is paid or refunded")
			}
			deposit = *depositReturned
		}

		now := s.clock.Now()
		if err := s.store.UpdateReservationPayment(txCtx, code, payment, deposit, now); err != nil {
			return err
		}
		res.PaymentStatus = payment
		res.DepositReturned = deposit
		res.UpdatedAt = now
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("code", code).Str("payment_status", updated.PaymentStatus).Msg("payment status updated")
	return entities.NewReservationResponse(updated), nil
}

// ListBusyDates returns the calendar days covered by the resource's active
// reservations, for painting unavailable markers.
func (s *ReservationService) ListBusyDates(ctx context.Context, resourceID string) ([]time.Time, error) {
	if _, err := s.store.GetResource(ctx, resourceID); err != nil {
		return nil, err
	}
	active, err := s.store.ListActiveIntervals(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("listing busy dates: %w", err)
	}
	return schedule.BusyDays(active), nil
}

// GetReservation looks a reservation up by its public code; the guest email
// must match unless the record is a walk-in looked up by staff.
func (s *ReservationService) GetReservation(ctx context.Context, code, email string) (*entities.ReservationResponse, error) {
	res, err := s.store.GetReservationByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if res.GuestEmail != "" && res.GuestEmail != email {
		return nil, fmt.Errorf("reservation: %w", apperrors.ErrNotFound)
	}
	return entities.NewReservationResponse(res), nil
}

// ListReservations returns the staff listing matching the filter.
func (s *ReservationService) ListReservations(ctx context.Context, filter entities.ReservationFilter) (*entities.ReservationsList, error) {
	rows, err := s.store.ListReservations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	list := &entities.ReservationsList{Total: len(rows), Reservations: make([]*entities.ReservationResponse, 0, len(rows))}
	for _, r := range rows {
		list.Reservations = append(list.Reservations, entities.NewReservationResponse(r))
	}
	return list, nil
}
