// Package schedule answers "is this resource free for this interval" over the
// active reservations of a resource. The interval set it works on is derived
// from reservation rows; it is never an independent source of truth.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"costaverde/internal/interval"
)

// ConflictError is the expected outcome of a reserve attempt against an
// occupied interval. It carries the overlapping sub-ranges so callers can
// surface the exact busy dates.
type ConflictError struct {
	ResourceID string
	Conflicts  []interval.Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("resource %s is not free for the requested interval (%d conflicting ranges)",
		e.ResourceID, len(e.Conflicts))
}

// ConflictDates returns the calendar days covered by the conflicting ranges.
func (e *ConflictError) ConflictDates() []time.Time {
	return BusyDays(e.Conflicts)
}

// FindConflicts returns the portions of req that overlap any active interval,
// clipped to req and sorted by start.
func FindConflicts(req interval.Interval, active []interval.Interval) []interval.Interval {
	var out []interval.Interval
	for _, iv := range active {
		if !req.Overlaps(iv) {
			continue
		}
		start := req.Start
		if iv.Start.After(start) {
			start = iv.Start
		}
		end := req.End
		if iv.End.Before(end) {
			end = iv.End
		}
		out = append(out, interval.Interval{Start: start, End: end})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// BusyDays returns the sorted, de-duplicated set of calendar days covered by
// the given intervals.
func BusyDays(active []interval.Interval) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, iv := range active {
		for _, d := range iv.DaysCovered() {
			seen[d] = struct{}{}
		}
	}
	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
