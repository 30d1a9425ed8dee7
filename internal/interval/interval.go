// Package interval models half-open [start, end) time ranges.
package interval

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("invalid interval: start must be before end")

// Interval is a half-open range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New validates and builds an interval. Degenerate ranges (start >= end) are
// rejected here, before any other component sees them.
func New(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start.UTC(), End: end.UTC()}, nil
}

// Overlaps reports whether iv and other share any instant.
// Two half-open intervals [A, B) and [C, D) overlap iff A < D && C < B,
// so a zero-length interval never overlaps anything.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// NormalizeToDay strips the time-of-day component, keeping the calendar day in UTC.
func NormalizeToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysCovered returns every calendar day touched by the interval, in order.
// An interval ending exactly at midnight does not cover the end day.
func (iv Interval) DaysCovered() []time.Time {
	first := NormalizeToDay(iv.Start)
	last := NormalizeToDay(iv.End)
	if iv.End.Equal(last) {
		last = last.AddDate(0, 0, -1)
	}
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DaysBetween counts whole calendar days from the day of a to the day of b.
func DaysBetween(a, b time.Time) int {
	return int(NormalizeToDay(b).Sub(NormalizeToDay(a)) / (24 * time.Hour))
}
