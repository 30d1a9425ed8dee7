package entities

// ReservationEmailData is the data model rendered into reservation emails.
type ReservationEmailData struct {
	GuestName          string
	ReservationCode    string
	ResourceKind       string
	StartTimeFormatted string
	EndTimeFormatted   string
	TotalAmount        int
	Status             string
	CurrentYear        int
}
