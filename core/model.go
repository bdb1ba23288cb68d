package core

const (
	EventTypeCall    = "call"
	EventTypeMeeting = "meeting"
	EventTypeVideo   = "video"
)

// CalendarEvent is the sole domain entity: one scheduled call, meeting
// or video item on the week grid. Day is a Sunday-first weekday index
// and Hour the 24h start hour; Time carries the display text including
// minutes. Every write path sets Time and Hour together.
type CalendarEvent struct {
	Id          int64   `json:"id"`
	Day         int     `json:"day"`
	Hour        int     `json:"hour"`
	Title       string  `json:"title"`
	Time        string  `json:"time"`
	Duration    float64 `json:"duration"`
	Type        string  `json:"type"`
	With        string  `json:"with"`
	Company     string  `json:"company"`
	Description string  `json:"description,omitempty"`
}

// EventDraft is the payload for creating events. Omitted fields get
// documented defaults; Hour is always derived from Time.
type EventDraft struct {
	Title       string  `json:"title"`
	Day         int     `json:"day"`
	Time        string  `json:"time"`
	Duration    float64 `json:"duration"`
	Type        string  `json:"type"`
	With        string  `json:"with"`
	Company     string  `json:"company"`
	Description string  `json:"description"`
}

// EventPatch carries a partial update; nil fields are left untouched.
type EventPatch struct {
	Title       *string  `json:"title,omitempty"`
	Day         *int     `json:"day,omitempty"`
	Time        *string  `json:"time,omitempty"`
	Duration    *float64 `json:"duration,omitempty"`
	Type        *string  `json:"type,omitempty"`
	With        *string  `json:"with,omitempty"`
	Company     *string  `json:"company,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Day == nil && p.Time == nil && p.Duration == nil &&
		p.Type == nil && p.With == nil && p.Company == nil && p.Description == nil
}
