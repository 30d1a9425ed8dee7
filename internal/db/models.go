package db

import "time"

// Resource kinds.
const (
	KindRoom    = "room"
	KindVehicle = "vehicle"
)

// Vehicle categories, used for security deposit tiers.
const (
	CategoryTwoWheeler  = "two-wheeler"
	CategoryFourWheeler = "four-wheeler"
)

// Room booking statuses.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
	StatusCancelled  = "cancelled"
)

// Vehicle rental statuses. Pending, confirmed and cancelled are shared with rooms.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Room payment statuses.
const (
	PaymentUnpaid          = "unpaid"
	PaymentReservationPaid = "reservation-paid"
	PaymentFullyPaid       = "fully-paid"
	PaymentRefunded        = "refunded"
)

// Vehicle payment statuses. Unpaid and refunded are shared with rooms.
const (
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// Reservation sources.
const (
	SourceOnline = "online"
	SourceWalkIn = "walk-in"
)

// Resource is a bookable room or vehicle.
type Resource struct {
	ID          string
	Kind        string
	Name        string
	Category    string // vehicle deposit tier, empty for rooms
	Adults      int    // room capacity
	Children    int    // room capacity
	Seats       int    // vehicle capacity
	Rate        int    // per 12-hour period (room) or per day (vehicle)
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reservation is a room booking or vehicle rental record.
type Reservation struct {
	ID              int
	Code            string
	ResourceID      string
	ResourceKind    string
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	GuestCount      int
	StartTime       time.Time
	EndTime         time.Time
	Status          string
	PaymentStatus   string
	Subtotal        int
	ReservationFee  int // rooms only
	SecurityDeposit int // vehicles only
	TotalAmount     int
	DepositReturned bool // vehicles only
	SpecialRequests string
	Source          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Occupying reports whether the reservation currently holds its interval
// against other bookings.
func (r *Reservation) Occupying() bool {
	switch r.Status {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusActive:
		return true
	}
	return false
}
