package entities

import (
	"time"

	"costaverde/internal/db"
)

// ReservationResponse is the external view of a reservation.
type ReservationResponse struct {
	Code            string    `json:"code"`
	ResourceID      string    `json:"resource_id"`
	ResourceKind    string    `json:"resource_kind"`
	GuestName       string    `json:"guest_name,omitempty"`
	GuestEmail      string    `json:"guest_email,omitempty"`
	GuestPhone      string    `json:"guest_phone,omitempty"`
	GuestCount      int       `json:"guest_count,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	Subtotal        int       `json:"subtotal"`
	ReservationFee  int       `json:"reservation_fee,omitempty"`
	SecurityDeposit int       `json:"security_deposit,omitempty"`
	TotalAmount     int       `json:"total_amount"`
	DepositReturned bool      `json:"deposit_returned,omitempty"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewReservationResponse maps a stored reservation onto its external view.
func NewReservationResponse(r *db.Reservation) *ReservationResponse {
	return &ReservationResponse{
		Code:            r.Code,
		ResourceID:      r.ResourceID,
		ResourceKind:    r.ResourceKind,
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		GuestPhone:      r.GuestPhone,
		GuestCount:      r.GuestCount,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Status:          r.Status,
		PaymentStatus:   r.PaymentStatus,
		Subtotal:        r.Subtotal,
		ReservationFee:  r.ReservationFee,
		SecurityDeposit: r.SecurityDeposit,
		TotalAmount:     r.TotalAmount,
		DepositReturned: r.DepositReturned,
		SpecialRequests: r.SpecialRequests,
		Source:          r.Source,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
