package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costaverde/internal/clock"
	"costaverde/internal/db"
	"costaverde/internal/entities"
	"costaverde/internal/repository"
)

func TestCompleteElapsedRentals(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.CreateResource(ctx, &db.Resource{
		ID: "scooter-1", Kind: db.KindVehicle, Name: "Scooter A",
		Category: db.CategoryTwoWheeler, Rate: 500, IsAvailable: true,
	}))

	reservations := NewReservationService(store, clock.NewFixed(testNow), nil, zerolog.New(io.Discard))
	res, err := reservations.CreateReservation(ctx, &entities.ReservationRequest{
		ResourceID: "scooter-1",
		GuestName:  "Bob Chan",
		GuestEmail: "bob@example.com",
		StartTime:  day(10),
		EndTime:    day(12),
	})
	require.NoError(t, err)
	_, err = reservations.SetStatus(ctx, res.Code, db.StatusConfirmed)
	require.NoError(t, err)
	_, err = reservations.SetStatus(ctx, res.Code, db.StatusActive)
	require.NoError(t, err)

	t.Run("before return time nothing happens", func(t *testing.T) {
		job := NewJobService(store, clock.NewFixed(day(11)), zerolog.New(io.Discard))
		require.NoError(t, job.CompleteElapsedRentals(ctx))
		got, err := store.GetReservationByCode(ctx, res.Code)
		require.NoError(t, err)
		assert.Equal(t, db.StatusActive, got.Status)
	})

	t.Run("after return time the rental completes", func(t *testing.T) {
		job := NewJobService(store, clock.NewFixed(day(12).Add(time.Hour)), zerolog.New(io.Discard))
		require.NoError(t, job.CompleteElapsedRentals(ctx))
		got, err := store.GetReservationByCode(ctx, res.Code)
		require.NoError(t, err)
		assert.Equal(t, db.StatusCompleted, got.Status)
	})

	t.Run("idempotent on a second run", func(t *testing.T) {
		job := NewJobService(store, clock.NewFixed(day(12).Add(2*time.Hour)), zerolog.New(io.Discard))
		require.NoError(t, job.CompleteElapsedRentals(ctx))
		got, err := store.GetReservationByCode(ctx, res.Code)
		require.NoError(t, err)
		assert.Equal(t, db.StatusCompleted, got.Status)
	})
}
