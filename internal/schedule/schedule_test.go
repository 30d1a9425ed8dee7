package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costaverde/internal/interval"
)

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func TestFindConflicts(t *testing.T) {
	booked := []interval.Interval{{Start: day(10), End: day(12)}}

	t.Run("overlapping request is clipped to the busy range", func(t *testing.T) {
		req := interval.Interval{Start: day(11), End: day(13)}
		conflicts := FindConflicts(req, booked)
		require.Len(t, conflicts, 1)
		assert.Equal(t, day(11), conflicts[0].Start)
		assert.Equal(t, day(12), conflicts[0].End)
	})

	t.Run("free request has no conflicts", func(t *testing.T) {
		req := interval.Interval{Start: day(12), End: day(14)}
		assert.Empty(t, FindConflicts(req, booked))
	})

	t.Run("multiple conflicts sorted by start", func(t *testing.T) {
		active := []interval.Interval{
			{Start: day(15), End: day(16)},
			{Start: day(11), End: day(12)},
		}
		req := interval.Interval{Start: day(10), End: day(20)}
		conflicts := FindConflicts(req, active)
		require.Len(t, conflicts, 2)
		assert.True(t, conflicts[0].Start.Before(conflicts[1].Start))
	})
}

func TestConflictErrorDates(t *testing.T) {
	err := &ConflictError{
		ResourceID: "room-1",
		Conflicts:  []interval.Interval{{Start: day(11), End: day(12)}},
	}
	assert.Equal(t, []time.Time{day(11)}, err.ConflictDates())
}

func TestBusyDays(t *testing.T) {
	t.Run("merges overlapping days", func(t *testing.T) {
		active := []interval.Interval{
			{Start: day(10), End: day(12)},
			{Start: day(11), End: day(13)},
		}
		assert.Equal(t, []time.Time{day(10), day(11), day(12), day(13)}, BusyDays(active))
	})

	t.Run("midnight-aligned stay excludes checkout day", func(t *testing.T) {
		active := []interval.Interval{{Start: day(20), End: day(21)}}
		assert.Equal(t, []time.Time{day(20)}, BusyDays(active))
	})

	t.Run("empty set", func(t *testing.T) {
		assert.Empty(t, BusyDays(nil))
	})
}
