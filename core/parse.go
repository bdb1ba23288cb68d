package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultDay  = 0
	DefaultHour = 9
	DefaultTime = "9:00 AM"
)

var weekdayNames = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

var clockPattern = regexp.MustCompile(`^\s*(\d{1,2})(?::(\d{2}))?\s*([aApP])\.?[mM]\.?\s*$`)

// ParseClockTime converts "<1-12>[:mm] am|pm" text into a 24h hour and
// minute. 12 AM maps to 0, 12 PM stays 12 and other PM hours get +12.
func ParseClockTime(s string) (hour int, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, false
	}

	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return 0, 0, false
		}
	}

	pm := strings.EqualFold(m[3], "p")
	if hour == 12 {
		hour = 0
	}

	if pm {
		hour += 12
	}

	return hour, minute, true
}

// FormatClock renders a 24h hour and minute as display text, the
// inverse of ParseClockTime ("14:30" -> "2:30 PM").
func FormatClock(hour, minute int) string {
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}

	h := hour % 12
	if h == 0 {
		h = 12
	}

	return fmt.Sprintf("%d:%02d %s", h, minute, meridiem)
}

// ResolveDay maps a day expression to a Sunday-first weekday index.
// Accepts "today", "tomorrow", weekday names and numeric indexes; an
// unresolvable value falls back to DefaultDay.
func ResolveDay(v any, now time.Time) int {
	switch d := v.(type) {
	case nil:
		return DefaultDay
	case int:
		if d >= 0 && d <= 6 {
			return d
		}
	case float64: // JSON numbers decode as float64
		n := int(d)
		if float64(n) == d && n >= 0 && n <= 6 {
			return n
		}
	case string:
		s := strings.ToLower(strings.TrimSpace(d))

		switch s {
		case "today":
			return int(now.Weekday())
		case "tomorrow":
			return int(now.AddDate(0, 0, 1).Weekday())
		}

		for i, name := range weekdayNames {
			if s == name {
				return i
			}
		}

		if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
			return n
		}
	}

	return DefaultDay
}

// InferEventType classifies free text into the closed type set. A
// "video" mention wins over "call" so "video call" stays a video.
func InferEventType(s string) string {
	t := strings.ToLower(s)

	switch {
	case strings.Contains(t, "video"):
		return EventTypeVideo
	case strings.Contains(t, "call"):
		return EventTypeCall
	default:
		return EventTypeMeeting
	}
}

// resolveClock parses time text into the (text, hour) pair stored on
// events, normalizing unparsable input to the documented defaults.
func resolveClock(s string) (text string, hour int) {
	if strings.TrimSpace(s) == "" {
		return DefaultTime, DefaultHour
	}

	h, m, ok := ParseClockTime(s)
	if !ok {
		return s, DefaultHour
	}

	return FormatClock(h, m), h
}
