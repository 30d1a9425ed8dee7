package entities

import "time"

// ConflictRange is an occupied sub-range of a requested interval.
type ConflictRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityResponse reports whether a resource is free for a requested
// interval and, if not, exactly which sub-ranges and days are busy.
type AvailabilityResponse struct {
	ResourceID         string          `json:"resource_id"`
	RequestedStartTime time.Time       `json:"requested_start_time"`
	RequestedEndTime   time.Time       `json:"requested_end_time"`
	IsAvailable        bool            `json:"is_available"`
	ConflictingRanges  []ConflictRange `json:"conflicting_ranges,omitempty"`
	ConflictingDates   []string        `json:"conflicting_dates,omitempty"`
}

// BusyDatesResponse lists the calendar days a resource is occupied, for
// painting "unavailable" markers.
type BusyDatesResponse struct {
	ResourceID string   `json:"resource_id"`
	BusyDates  []string `json:"busy_dates"`
}
