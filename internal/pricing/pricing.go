// Package pricing derives period/day counts from an interval and stamps
// monetary amounts onto new reservations.
package pricing

import (
	"math"

	"costaverde/internal/db"
	"costaverde/internal/interval"
)

// Reservation fee charged on room bookings, as a fraction of the subtotal.
const roomFeeRate = 0.12

// Security deposit tiers by vehicle category.
const (
	depositTwoWheeler  = 1000
	depositFourWheeler = 3000
)

// Quote holds amounts stamped onto a reservation at creation time.
type Quote struct {
	Units           int // periods (rooms) or days (vehicles)
	Subtotal        int
	ReservationFee  int
	SecurityDeposit int
	TotalAmount     int
}

// RoomQuote prices a room stay. A period is one calendar night; a stay within
// the same calendar day still counts as one period.
func RoomQuote(rate int, iv interval.Interval) Quote {
	periods := interval.DaysBetween(iv.Start, iv.End)
	if periods < 1 {
		periods = 1
	}
	subtotal := rate * periods
	fee := int(math.Round(float64(subtotal) * roomFeeRate))
	return Quote{
		Units:          periods,
		Subtotal:       subtotal,
		ReservationFee: fee,
		TotalAmount:    subtotal + fee,
	}
}

// VehicleQuote prices a rental. Days are counted from pickup to return,
// rounded up, minimum one.
func VehicleQuote(dailyRate int, category string, iv interval.Interval) Quote {
	days := int(math.Ceil(iv.Duration().Hours() / 24))
	if days < 1 {
		days = 1
	}
	subtotal := dailyRate * days
	deposit := DepositFor(category)
	return Quote{
		Units:           days,
		Subtotal:        subtotal,
		SecurityDeposit: deposit,
		TotalAmount:     subtotal + deposit,
	}
}

// DepositFor returns the security deposit for a vehicle category.
func DepositFor(category string) int {
	if category == db.CategoryTwoWheeler {
		return depositTwoWheeler
	}
	return depositFourWheeler
}

// Stamp fills the monetary fields of a reservation from the resource it books.
func Stamp(res *db.Reservation, resource db.Resource, iv interval.Interval) {
	var q Quote
	if resource.Kind == db.KindVehicle {
		q = VehicleQuote(resource.Rate, resource.Category, iv)
	} else {
		q = RoomQuote(resource.Rate, iv)
	}
	res.Subtotal = q.Subtotal
	res.ReservationFee = q.ReservationFee
	res.SecurityDeposit = q.SecurityDeposit
	res.TotalAmount = q.TotalAmount
}
