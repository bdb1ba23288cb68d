package core

import (
	"context"

	"github.com/rs/zerolog/log"
)

// ConflictAuditor periodically re-scans the store and logs every
// overlapping pair. Conflicts are advisory, so the audit only reports;
// it never mutates the calendar.
type ConflictAuditor struct {
	store *EventStore
}

func NewConflictAuditor(store *EventStore) *ConflictAuditor {
	return &ConflictAuditor{store: store}
}

// Scan runs one audit pass over a fresh snapshot.
func (a *ConflictAuditor) Scan(ctx context.Context) []Conflict {
	conflicts := DetectConflicts(a.store.ListAll())

	logger := log.Ctx(ctx).With().Str("component", "conflict-auditor").Logger()

	if len(conflicts) == 0 {
		logger.Debug().Msg("no conflicting events")
		return conflicts
	}

	for _, c := range conflicts {
		logger.Warn().
			Int64("first_id", c.First.Id).
			Int64("second_id", c.Second.Id).
			Int("day", c.First.Day).
			Msg("overlapping events detected")
	}

	return conflicts
}
