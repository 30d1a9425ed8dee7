package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costaverde/internal/db"
)

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		from, to    string
		shouldAllow bool
	}{
		{"room pending to confirmed", db.KindRoom, db.StatusPending, db.StatusConfirmed, true},
		{"room confirmed to checked-in", db.KindRoom, db.StatusConfirmed, db.StatusCheckedIn, true},
		{"room checked-in to checked-out", db.KindRoom, db.StatusCheckedIn, db.StatusCheckedOut, true},
		{"room pending to cancelled", db.KindRoom, db.StatusPending, db.StatusCancelled, true},
		{"room confirmed to cancelled", db.KindRoom, db.StatusConfirmed, db.StatusCancelled, true},
		// Once checked in, the stay is underway.
		{"room checked-in to cancelled", db.KindRoom, db.StatusCheckedIn, db.StatusCancelled, false},
		{"room checked-out to pending", db.KindRoom, db.StatusCheckedOut, db.StatusPending, false},
		{"room pending to checked-in skips confirm", db.KindRoom, db.StatusPending, db.StatusCheckedIn, false},
		{"room cancelled is terminal", db.KindRoom, db.StatusCancelled, db.StatusPending, false},
		{"room same status rejected", db.KindRoom, db.StatusPending, db.StatusPending, false},

		{"vehicle pending to confirmed", db.KindVehicle, db.StatusPending, db.StatusConfirmed, true},
		{"vehicle confirmed to active", db.KindVehicle, db.StatusConfirmed, db.StatusActive, true},
		{"vehicle active to completed", db.KindVehicle, db.StatusActive, db.StatusCompleted, true},
		{"vehicle pending to cancelled", db.KindVehicle, db.StatusPending, db.StatusCancelled, true},
		// Vehicle rentals cancel from pending only.
		{"vehicle confirmed to cancelled", db.KindVehicle, db.StatusConfirmed, db.StatusCancelled, false},
		{"vehicle active to cancelled", db.KindVehicle, db.StatusActive, db.StatusCancelled, false},
		{"vehicle completed to active", db.KindVehicle, db.StatusCompleted, db.StatusActive, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStatus(tt.kind, tt.from, tt.to)
			if tt.shouldAllow {
				assert.NoError(t, err)
			} else {
				var transErr *InvalidTransitionError
				require.ErrorAs(t, err, &transErr)
				assert.Equal(t, tt.from, transErr.From)
				assert.Equal(t, tt.to, transErr.To)
			}
		})
	}
}

func TestCheckStatusReportsAllowedStates(t *testing.T) {
	err := CheckStatus(db.KindRoom, db.StatusPending, db.StatusCheckedOut)
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.ElementsMatch(t, []string{db.StatusConfirmed, db.StatusCancelled}, transErr.Allowed)
}

func TestCheckPayment(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		from, to    string
		shouldAllow bool
	}{
		{"room unpaid to reservation-paid", db.KindRoom, db.PaymentUnpaid, db.PaymentReservationPaid, true},
		{"room reservation-paid to fully-paid", db.KindRoom, db.PaymentReservationPaid, db.PaymentFullyPaid, true},
		{"room unpaid skips to fully-paid", db.KindRoom, db.PaymentUnpaid, db.PaymentFullyPaid, false},
		{"room refund from unpaid", db.KindRoom, db.PaymentUnpaid, db.PaymentRefunded, true},
		{"room refund from fully-paid", db.KindRoom, db.PaymentFullyPaid, db.PaymentRefunded, true},
		{"room refunded is terminal", db.KindRoom, db.PaymentRefunded, db.PaymentUnpaid, false},
		{"room refund twice", db.KindRoom, db.PaymentRefunded, db.PaymentRefunded, false},

		{"vehicle unpaid to partial", db.KindVehicle, db.PaymentUnpaid, db.PaymentPartial, true},
		{"vehicle partial to paid", db.KindVehicle, db.PaymentPartial, db.PaymentPaid, true},
		{"vehicle paid to partial", db.KindVehicle, db.PaymentPaid, db.PaymentPartial, false},
		{"vehicle refund from partial", db.KindVehicle, db.PaymentPartial, db.PaymentRefunded, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPayment(tt.kind, tt.from, tt.to)
			if tt.shouldAllow {
				assert.NoError(t, err)
			} else {
				var transErr *InvalidTransitionError
				require.ErrorAs(t, err, &transErr)
				assert.Equal(t, "payment_status", transErr.Axis)
			}
		})
	}
}

func TestCanReturnDeposit(t *testing.T) {
	assert.False(t, CanReturnDeposit(db.PaymentUnpaid))
	assert.False(t, CanReturnDeposit(db.PaymentPartial))
	assert.True(t, CanReturnDeposit(db.PaymentPaid))
	assert.True(t, CanReturnDeposit(db.PaymentRefunded))
}

func TestIsCancellable(t *testing.T) {
	assert.True(t, IsCancellable(db.KindRoom, db.StatusConfirmed))
	assert.False(t, IsCancellable(db.KindRoom, db.StatusCheckedIn))
	assert.True(t, IsCancellable(db.KindVehicle, db.StatusPending))
	assert.False(t, IsCancellable(db.KindVehicle, db.StatusConfirmed))
}
