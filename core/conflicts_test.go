package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	t.Run("touching boundaries do not conflict", func(t *testing.T) {
		t.Parallel()

		events := []CalendarEvent{
			{Id: 1, Day: 1, Hour: 9, Duration: 1},
			{Id: 2, Day: 1, Hour: 10, Duration: 1},
		}

		assert.Empty(t, DetectConflicts(events))
	})

	t.Run("overlapping events conflict", func(t *testing.T) {
		t.Parallel()

		events := []CalendarEvent{
			{Id: 1, Day: 1, Hour: 9, Duration: 2},
			{Id: 2, Day: 1, Hour: 10, Duration: 1},
		}

		conflicts := DetectConflicts(events)
		require.Len(t, conflicts, 1)
		assert.Equal(t, int64(1), conflicts[0].First.Id)
		assert.Equal(t, int64(2), conflicts[0].Second.Id)
	})

	t.Run("pairs are unordered and deduplicated", func(t *testing.T) {
		t.Parallel()

		events := []CalendarEvent{
			{Id: 1, Day: 3, Hour: 9, Duration: 3},
			{Id: 2, Day: 3, Hour: 10, Duration: 1},
		}

		conflicts := DetectConflicts(events)
		require.Len(t, conflicts, 1, "the same pair must not be reported twice")
	})

	t.Run("different days never conflict", func(t *testing.T) {
		t.Parallel()

		events := []CalendarEvent{
			{Id: 1, Day: 1, Hour: 9, Duration: 8},
			{Id: 2, Day: 2, Hour: 9, Duration: 8},
		}

		assert.Empty(t, DetectConflicts(events))
	})

	t.Run("fractional durations", func(t *testing.T) {
		t.Parallel()

		events := []CalendarEvent{
			{Id: 1, Day: 5, Hour: 9, Duration: 0.5},
			{Id: 2, Day: 5, Hour: 9, Duration: 1.5},
			{Id: 3, Day: 5, Hour: 10, Duration: 1},
		}

		conflicts := DetectConflicts(events)
		// 1+2 overlap at 9; 2 runs until 10:30 so it also hits 3.
		require.Len(t, conflicts, 2)
	})

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, DetectConflicts(nil))
	})
}
