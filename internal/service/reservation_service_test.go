package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costaverde/internal/clock"
	"costaverde/internal/db"
	"costaverde/internal/entities"
	apperrors "costaverde/internal/errors"
	"costaverde/internal/lifecycle"
	"costaverde/internal/repository"
	"costaverde/internal/schedule"
)

var testNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*ReservationService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.CreateResource(ctx, &db.Resource{
		ID: "room-1", Kind: db.KindRoom, Name: "Sea View 101",
		Adults: 2, Children: 1, Rate: 1000, IsAvailable: true,
	}))
	require.NoError(t, store.CreateResource(ctx, &db.Resource{
		ID: "scooter-1", Kind: db.KindVehicle, Name: "Scooter A",
		Category: db.CategoryTwoWheeler, Seats: 2, Rate: 500, IsAvailable: true,
	}))
	svc := NewReservationService(store, clock.NewFixed(testNow), nil, zerolog.New(io.Discard))
	return svc, store
}

func roomRequest(start, end time.Time) *entities.ReservationRequest {
	return &entities.ReservationRequest{
		ResourceID: "room-1",
		GuestName:  "Alice Reyes",
		GuestEmail: "alice@example.com",
		GuestPhone: "+15550001111",
		GuestCount: 2,
		StartTime:  start,
		EndTime:    end,
	}
}

func TestCreateReservation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, roomRequest(day(10), day(13)))
	require.NoError(t, err)

	assert.NotEmpty(t, res.Code)
	assert.Equal(t, db.StatusPending, res.Status)
	assert.Equal(t, db.PaymentUnpaid, res.PaymentStatus)
	assert.Equal(t, db.SourceOnline, res.Source)
	assert.Equal(t, 3000, res.Subtotal)
	assert.Equal(t, 360, res.ReservationFee)
	assert.Equal(t, 3360, res.TotalAmount)
	assert.Equal(t, testNow, res.CreatedAt)
}

func TestCreateReservationValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("inverted interval", func(t *testing.T) {
		_, err := svc.CreateReservation(ctx, roomRequest(day(13), day(10)))
		require.Error(t, err)
	})

	t.Run("missing guest identity", func(t *testing.T) {
		req := roomRequest(day(10), day(13))
		req.GuestEmail = ""
		_, err := svc.CreateReservation(ctx, req)
		require.Error(t, err)
	})

	t.Run("unknown resource", func(t *testing.T) {
		req := roomRequest(day(10), day(13))
		req.ResourceID = "nope"
		_, err := svc.CreateReservation(ctx, req)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCreateReservationConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)

	_, err = svc.CreateReservation(ctx, roomRequest(day(11), day(13)))
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, day(11), conflict.Conflicts[0].Start)
	assert.Equal(t, day(12), conflict.Conflicts[0].End)
	assert.Equal(t, []time.Time{day(11)}, conflict.ConflictDates())
}

func TestCreateReservationResourceUnavailable(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.SetResourceAvailability(ctx, "room-1", false, testNow))
	_, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.ErrorIs(t, err, apperrors.ErrResourceUnavailable)
}

func TestDisablingResourceKeepsExistingIntervals(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)

	require.NoError(t, store.SetResourceAvailability(ctx, "room-1", false, testNow))
	days, err := svc.ListBusyDates(ctx, "room-1")
	require.NoError(t, err)
	assert.Contains(t, days, day(10))
}

func TestCancelReleasesInterval(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	before, err := svc.ListBusyDates(ctx, "room-1")
	require.NoError(t, err)

	res, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)

	cancelled, err := svc.CancelReservation(ctx, res.Code)
	require.NoError(t, err)
	assert.Equal(t, db.StatusCancelled, cancelled.Status)

	after, err := svc.ListBusyDates(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, before, after, "cancel must leave the busy-date set as before creation")

	// The interval is immediately reusable.
	_, err = svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)
}

func TestCancelTwiceRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)

	_, err = svc.CancelReservation(ctx, res.Code)
	require.NoError(t, err)

	_, err = svc.CancelReservation(ctx, res.Code)
	var transErr *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
}

func TestWalkInOccupiesLikeOnline(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateWalkIn(ctx, &entities.WalkInRequest{
		ResourceID: "room-1",
		StartTime:  day(20),
		EndTime:    day(21),
		Note:       "front desk booking",
	})
	require.NoError(t, err)
	assert.Equal(t, db.SourceWalkIn, res.Source)
	assert.Empty(t, res.GuestEmail)
	assert.Equal(t, db.PaymentUnpaid, res.PaymentStatus)

	days, err := svc.ListBusyDates(ctx, "room-1")
	require.NoError(t, err)
	assert.Contains(t, days, day(20))

	avail, err := svc.CheckAvailability(ctx, "room-1", day(20), day(22))
	require.NoError(t, err)
	assert.False(t, avail.IsAvailable)
	assert.Equal(t, []string{"2025-10-20"}, avail.ConflictingDates)
}

func TestSetStatusGuards(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, res.Code, db.StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, res.Code, db.StatusCheckedIn)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, res.Code, db.StatusCancelled)
	var transErr *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, []string{db.StatusCheckedOut}, transErr.Allowed)

	// A checked-in booking still occupies its interval.
	_, err = svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestVehicleCancelOnlyWhilePending(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := &entities.ReservationRequest{
		ResourceID: "scooter-1",
		GuestName:  "Bob Chan",
		GuestEmail: "bob@example.com",
		StartTime:  day(10),
		EndTime:    day(13),
	}
	res, err := svc.CreateReservation(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1500, res.Subtotal)
	assert.Equal(t, 1000, res.SecurityDeposit)
	assert.Equal(t, 2500, res.TotalAmount)

	_, err = svc.SetStatus(ctx, res.Code, db.StatusConfirmed)
	require.NoError(t, err)

	_, err = svc.CancelReservation(ctx, res.Code)
	var transErr *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
}

func TestSetPaymentStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)

	updated, err := svc.SetPaymentStatus(ctx, res.Code, db.PaymentReservationPaid, nil)
	require.NoError(t, err)
	assert.Equal(t, db.PaymentReservationPaid, updated.PaymentStatus)
	// Status axis is untouched.
	assert.Equal(t, db.StatusPending, updated.Status)

	_, err = svc.SetPaymentStatus(ctx, res.Code, db.PaymentUnpaid, nil)
	var transErr *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)

	updated, err = svc.SetPaymentStatus(ctx, res.Code, db.PaymentRefunded, nil)
	require.NoError(t, err)
	assert.Equal(t, db.PaymentRefunded, updated.PaymentStatus)
}

func TestDepositReturnedGate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, &entities.ReservationRequest{
		ResourceID: "scooter-1",
		GuestName:  "Bob Chan",
		GuestEmail: "bob@example.com",
		StartTime:  day(10),
		EndTime:    day(12),
	})
	require.NoError(t, err)

	yes := true
	_, err = svc.SetPaymentStatus(ctx, res.Code, "", &yes)
	require.Error(t, err, "deposit cannot be returned while unpaid")

	_, err = svc.SetPaymentStatus(ctx, res.Code, db.PaymentPartial, nil)
	require.NoError(t, err)
	_, err = svc.SetPaymentStatus(ctx, res.Code, db.PaymentPaid, nil)
	require.NoError(t, err)

	updated, err := svc.SetPaymentStatus(ctx, res.Code, "", &yes)
	require.NoError(t, err)
	assert.True(t, updated.DepositReturned)
}

func TestDepositReturnedRoomRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)

	yes := true
	_, err = svc.SetPaymentStatus(ctx, res.Code, "", &yes)
	require.Error(t, err)
}

func TestConcurrentCreatesYieldOneSuccess(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var conflict *schedule.ConflictError
		require.ErrorAs(t, err, &conflict)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	active, err := store.ListActiveIntervals(ctx, "room-1")
	require.NoError(t, err)
	assert.Len(t, active, 1, "exactly one reservation may hold the interval")
}

func TestListReservationsFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)
	second, err := svc.CreateReservation(ctx, &entities.ReservationRequest{
		ResourceID: "scooter-1",
		GuestName:  "Bob Chan",
		GuestEmail: "bob@example.com",
		StartTime:  day(15),
		EndTime:    day(17),
	})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, second.Code, db.StatusConfirmed)
	require.NoError(t, err)

	t.Run("by status", func(t *testing.T) {
		list, err := svc.ListReservations(ctx, entities.ReservationFilter{Status: db.StatusPending})
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, first.Code, list.Reservations[0].Code)
	})

	t.Run("by date range", func(t *testing.T) {
		list, err := svc.ListReservations(ctx, entities.ReservationFilter{From: day(14), To: day(18)})
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, second.Code, list.Reservations[0].Code)
	})

	t.Run("by search", func(t *testing.T) {
		list, err := svc.ListReservations(ctx, entities.ReservationFilter{Search: "bob@"})
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
	})

	t.Run("unfiltered", func(t *testing.T) {
		list, err := svc.ListReservations(ctx, entities.ReservationFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, list.Total)
	})
}

func TestGetReservationRequiresMatchingEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateReservation(ctx, roomRequest(day(10), day(12)))
	require.NoError(t, err)

	_, err = svc.GetReservation(ctx, res.Code, "wrong@example.com")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := svc.GetReservation(ctx, res.Code, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, res.Code, got.Code)
}
