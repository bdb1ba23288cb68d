package core

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// BuildWeekFeed serializes one week of events into an iCalendar feed
// so external calendar apps can subscribe to the schedule. Each event
// is anchored to the week date matching its day index; the duration
// may be fractional hours.
func BuildWeekFeed(anchor time.Time, events []CalendarEvent) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//calendar-assistant//week feed//EN")

	week := WeekDates(anchor)

	for _, event := range events {
		if event.Day < 0 || event.Day > 6 {
			continue
		}

		day := week[event.Day]
		start := time.Date(day.Year(), day.Month(), day.Day(), event.Hour, 0, 0, 0, day.Location())
		end := start.Add(time.Duration(event.Duration * float64(time.Hour)))

		entry := cal.AddEvent(fmt.Sprintf("event-%d@calendar-assistant", event.Id))
		entry.SetStartAt(start)
		entry.SetEndAt(end)
		entry.SetSummary(event.Title)
		entry.SetDescription(event.Description)

		if event.With != "" {
			entry.SetLocation(fmt.Sprintf("%s with %s (%s)", event.Type, event.With, event.Company))
		}
	}

	return cal.Serialize()
}
