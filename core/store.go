package core

import (
	"sort"
	"sync"
)

// EventStore owns the authoritative event list for one session. All
// mutation goes through it so the invariants (unique ids, day range,
// Time/Hour agreement) are enforced in one place. It is in-memory by
// design; the Archive collaborator handles durability.
type EventStore struct {
	mu     sync.RWMutex
	events []CalendarEvent
	nextId int64
}

func NewEventStore() *EventStore {
	return &EventStore{nextId: 1}
}

// Create assigns a fresh id and fills defaults for omitted fields. It
// never fails: an unresolvable day or time lands on the documented
// Sunday 9 AM fallback.
func (s *EventStore) Create(draft EventDraft) CalendarEvent {
	event := CalendarEvent{
		Day:         draft.Day,
		Title:       draft.Title,
		Duration:    draft.Duration,
		Type:        draft.Type,
		With:        draft.With,
		Company:     draft.Company,
		Description: draft.Description,
	}

	event.Time, event.Hour = resolveClock(draft.Time)

	if event.Day < 0 || event.Day > 6 {
		event.Day = DefaultDay
	}

	if event.Duration <= 0 {
		event.Duration = 1
	}

	switch event.Type {
	case EventTypeCall, EventTypeMeeting, EventTypeVideo:
	default:
		event.Type = EventTypeMeeting
	}

	if event.With == "" {
		event.With = "Unspecified"
	}

	if event.Company == "" {
		event.Company = "Unknown"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event.Id = s.nextId
	s.nextId++
	s.events = append(s.events, event)

	return event
}

// Update overwrites only the fields the patch carries. Supplying Time
// recomputes Hour in the same critical section so the two never drift.
func (s *EventStore) Update(id int64, patch EventPatch) (CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].Id != id {
			continue
		}

		event := &s.events[i]

		if patch.Title != nil {
			event.Title = *patch.Title
		}

		if patch.Day != nil && *patch.Day >= 0 && *patch.Day <= 6 {
			event.Day = *patch.Day
		}

		if patch.Time != nil {
			event.Time, event.Hour = resolveClock(*patch.Time)
		}

		if patch.Duration != nil && *patch.Duration > 0 {
			event.Duration = *patch.Duration
		}

		if patch.Type != nil {
			event.Type = InferEventType(*patch.Type)
		}

		if patch.With != nil {
			event.With = *patch.With
		}

		if patch.Company != nil {
			event.Company = *patch.Company
		}

		if patch.Description != nil {
			event.Description = *patch.Description
		}

		return *event, nil
	}

	return CalendarEvent{}, ErrEventNotFound
}

// Delete removes the event if present. Idempotent: a second delete of
// the same id reports false, not an error.
func (s *EventStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].Id == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return true
		}
	}

	return false
}

// Get returns a copy of the event with the given id.
func (s *EventStore) Get(id int64) (CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, event := range s.events {
		if event.Id == id {
			return event, nil
		}
	}

	return CalendarEvent{}, ErrEventNotFound
}

// ListByDay returns the day's events ordered by hour ascending,
// insertion order within the same hour. Empty slice when none match.
func (s *EventStore) ListByDay(day int) []CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]CalendarEvent, 0)

	for _, event := range s.events {
		if event.Day == day {
			matched = append(matched, event)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Hour < matched[j].Hour
	})

	return matched
}

// ListAll returns a copied snapshot in insertion order.
func (s *EventStore) ListAll() []CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]CalendarEvent(nil), s.events...)
}

// Len reports the current event count.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.events)
}
