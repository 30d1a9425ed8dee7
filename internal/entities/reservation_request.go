package entities

import "time"

// ReservationRequest is the payload for an online reservation.
type ReservationRequest struct {
	ResourceID      string    `json:"resource_id"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	GuestPhone      string    `json:"guest_phone"`
	GuestCount      int       `json:"guest_count"`
	SpecialRequests string    `json:"special_requests"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
}

// WalkInRequest is the staff payload for manually blocking an interval.
// Requester and payment fields are deliberately absent.
type WalkInRequest struct {
	ResourceID string    `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Note       string    `json:"note,omitempty"`
}

// StatusUpdateRequest is the staff payload for a status override.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// PaymentUpdateRequest is the staff payload for a payment-status override.
// DepositReturned applies to vehicle rentals only.
type PaymentUpdateRequest struct {
	PaymentStatus   string `json:"payment_status"`
	DepositReturned *bool  `json:"deposit_returned,omitempty"`
}

// ReservationFilter narrows staff reservation listings.
type ReservationFilter struct {
	Status        string
	PaymentStatus string
	From          time.Time
	To            time.Time
	Search        string
}
