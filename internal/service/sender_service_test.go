package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"costaverde/internal/db"
	"costaverde/internal/entities"
)

func TestReservationEmailData(t *testing.T) {
	res := &entities.ReservationResponse{
		Code:         "abc-123",
		ResourceKind: db.KindRoom,
		GuestName:    "Alice Reyes",
		StartTime:    time.Date(2025, 10, 10, 14, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 10, 12, 11, 0, 0, 0, time.UTC),
		TotalAmount:  3360,
	}

	data := newReservationEmailData(res, "created", 2025)
	assert.Equal(t, "abc-123", data.ReservationCode)
	assert.Equal(t, "10 Oct 2025 14:00 UTC", data.StartTimeFormatted)
	assert.Equal(t, "12 Oct 2025 11:00 UTC", data.EndTimeFormatted)
	assert.Equal(t, 3360, data.TotalAmount)

	body := renderEmailBody(data)
	assert.Contains(t, body, "Hello Alice Reyes")
	assert.Contains(t, body, "abc-123")
	assert.Contains(t, body, "room reservation")
	assert.Contains(t, body, "Total: 3360")
}
