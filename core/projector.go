package core

import (
	"time"
)

// UpcomingEvent is the "next event countdown" view: the earliest
// event still ahead of the clock today and how long until it starts.
type UpcomingEvent struct {
	Event    CalendarEvent `json:"event"`
	StartsIn time.Duration `json:"startsIn"`
}

// Projector derives read-only display views from the store without
// ever mutating it.
type Projector struct {
	store *EventStore
	now   func() time.Time
}

func NewProjector(store *EventStore) *Projector {
	return &Projector{store: store, now: time.Now}
}

// TodaySchedule lists today's events ordered by hour ascending.
func (p *Projector) TodaySchedule() []CalendarEvent {
	return p.store.ListByDay(int(p.now().Weekday()))
}

// WeekDates returns the seven dates, Sunday through Saturday, of the
// week containing anchor, at midnight in anchor's location.
func WeekDates(anchor time.Time) [7]time.Time {
	sunday := anchor.AddDate(0, 0, -int(anchor.Weekday()))
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, anchor.Location())

	var week [7]time.Time
	for i := range week {
		week[i] = sunday.AddDate(0, 0, i)
	}

	return week
}

// NextWeek and PrevWeek shift the anchor by one week; ThisWeek resets
// it to the current date. Pure anchor arithmetic, no store access.
func NextWeek(anchor time.Time) time.Time { return anchor.AddDate(0, 0, 7) }

func PrevWeek(anchor time.Time) time.Time { return anchor.AddDate(0, 0, -7) }

func (p *Projector) ThisWeek() time.Time { return p.now() }

// EventsForCell returns the events starting exactly at the given day
// and hour. Overlap is allowed, so a cell can hold several events.
func (p *Projector) EventsForCell(day, hour int) []CalendarEvent {
	cell := make([]CalendarEvent, 0)

	for _, event := range p.store.ListByDay(day) {
		if event.Hour == hour {
			cell = append(cell, event)
		}
	}

	return cell
}

// NextEvent finds the earliest of today's events starting at or after
// the current hour, with the countdown until its start. The second
// return is false when nothing is left today.
func (p *Projector) NextEvent() (UpcomingEvent, bool) {
	now := p.now()

	for _, event := range p.store.ListByDay(int(now.Weekday())) {
		if event.Hour < now.Hour() {
			continue
		}

		start := time.Date(now.Year(), now.Month(), now.Day(), event.Hour, 0, 0, 0, now.Location())

		startsIn := start.Sub(now)
		if startsIn < 0 {
			startsIn = 0
		}

		return UpcomingEvent{Event: event, StartsIn: startsIn}, true
	}

	return UpcomingEvent{}, false
}
