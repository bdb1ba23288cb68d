package core

// Conflict is an unordered pair of same-day events whose time
// intervals overlap. Conflicts are advisory: the store never blocks
// overlapping events.
type Conflict struct {
	First  CalendarEvent `json:"first"`
	Second CalendarEvent `json:"second"`
}

// DetectConflicts scans every unordered pair of distinct events
// sharing a day and reports the ones that overlap. The intervals are
// half-open, so an event ending exactly when another starts does not
// conflict. Quadratic per day partition, which is fine at human
// calendar scale; call it on a fresh snapshot after every mutation
// rather than caching results.
func DetectConflicts(events []CalendarEvent) []Conflict {
	conflicts := make([]Conflict, 0)

	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			a, b := events[i], events[j]
			if a.Day != b.Day {
				continue
			}

			aEnd := float64(a.Hour) + a.Duration
			bEnd := float64(b.Hour) + b.Duration

			if float64(a.Hour) < bEnd && float64(b.Hour) < aEnd {
				conflicts = append(conflicts, Conflict{First: a, Second: b})
			}
		}
	}

	return conflicts
}
