// Package lifecycle holds the status and payment-status state machines for
// room bookings and vehicle rentals.
package lifecycle

import (
	"fmt"
	"strings"

	"costaverde/internal/db"
)

// InvalidTransitionError reports an illegal status or payment-status jump
// together with the states that would have been legal.
type InvalidTransitionError struct {
	Axis    string // "status" or "payment_status"
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid %s transition %s -> %s: %s is terminal", e.Axis, e.From, e.To, e.From)
	}
	return fmt.Sprintf("invalid %s transition %s -> %s: allowed next states are %s",
		e.Axis, e.From, e.To, strings.Join(e.Allowed, ", "))
}

// Room bookings cancel from pending or confirmed only; once checked in the
// stay is underway.
var roomStatus = map[string][]string{
	db.StatusPending:    {db.StatusConfirmed, db.StatusCancelled},
	db.StatusConfirmed:  {db.StatusCheckedIn, db.StatusCancelled},
	db.StatusCheckedIn:  {db.StatusCheckedOut},
	db.StatusCheckedOut: {},
	db.StatusCancelled:  {},
}

// Vehicle rentals cancel from pending only.
var vehicleStatus = map[string][]string{
	db.StatusPending:   {db.StatusConfirmed, db.StatusCancelled},
	db.StatusConfirmed: {db.StatusActive},
	db.StatusActive:    {db.StatusCompleted},
	db.StatusCompleted: {},
	db.StatusCancelled: {},
}

var roomPayment = map[string][]string{
	db.PaymentUnpaid:          {db.PaymentReservationPaid},
	db.PaymentReservationPaid: {db.PaymentFullyPaid},
	db.PaymentFullyPaid:       {},
	db.PaymentRefunded:        {},
}

var vehiclePayment = map[string][]string{
	db.PaymentUnpaid:   {db.PaymentPartial},
	db.PaymentPartial:  {db.PaymentPaid},
	db.PaymentPaid:     {},
	db.PaymentRefunded: {},
}

func statusTable(kind string) map[string][]string {
	if kind == db.KindVehicle {
		return vehicleStatus
	}
	return roomStatus
}

func paymentTable(kind string) map[string][]string {
	if kind == db.KindVehicle {
		return vehiclePayment
	}
	return roomPayment
}

func canTransition(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedStatuses returns the legal next statuses for a reservation kind.
func AllowedStatuses(kind, from string) []string {
	return statusTable(kind)[from]
}

// CheckStatus validates a status transition for the given resource kind.
func CheckStatus(kind, from, to string) error {
	if from == to {
		return &InvalidTransitionError{Axis: "status", From: from, To: to, Allowed: statusTable(kind)[from]}
	}
	if !canTransition(statusTable(kind), from, to) {
		return &InvalidTransitionError{Axis: "status", From: from, To: to, Allowed: statusTable(kind)[from]}
	}
	return nil
}

// CheckPayment validates a payment-status transition. Refunded is a terminal
// override reachable from any payment state.
func CheckPayment(kind, from, to string) error {
	if to == db.PaymentRefunded {
		if from == db.PaymentRefunded {
			return &InvalidTransitionError{Axis: "payment_status", From: from, To: to}
		}
		return nil
	}
	if from == to || !canTransition(paymentTable(kind), from, to) {
		allowed := append([]string{}, paymentTable(kind)[from]...)
		if from != db.PaymentRefunded {
			allowed = append(allowed, db.PaymentRefunded)
		}
		return &InvalidTransitionError{Axis: "payment_status", From: from, To: to, Allowed: allowed}
	}
	return nil
}

// CanReturnDeposit reports whether a rental's security deposit may be marked
// returned: only once payment has settled as paid or refunded.
func CanReturnDeposit(paymentStatus string) bool {
	return paymentStatus == db.PaymentPaid || paymentStatus == db.PaymentRefunded
}

// IsCancellable reports whether a reservation in the given status may still
// be cancelled for its kind.
func IsCancellable(kind, status string) bool {
	return canTransition(statusTable(kind), status, db.StatusCancelled)
}
