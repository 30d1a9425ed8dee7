package entities

type ReservationsList struct {
	Total        int                    `json:"total"`
	Reservations []*ReservationResponse `json:"reservations"`
}
