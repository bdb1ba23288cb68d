package core

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateDraft enforces the store invariants on externally supplied
// create payloads: non-empty bounded title, weekday index in range,
// non-negative duration and a recognized (or omitted) type. Omitted
// fields are legal; the store fills in defaults.
func ValidateDraft(draft EventDraft) error {
	draft.Title = strings.TrimSpace(draft.Title)
	if len(draft.Title) == 0 {
		return errors.New("title is required")
	}

	if len(draft.Title) > 100 {
		return errors.New("title is too long (100 characters tops)")
	}

	if draft.Day < 0 || draft.Day > 6 {
		return fmt.Errorf("day %d is out of range (0-6, Sunday first)", draft.Day)
	}

	if draft.Duration < 0 {
		return errors.New("duration must be positive")
	}

	switch draft.Type {
	case "", EventTypeCall, EventTypeMeeting, EventTypeVideo:
	default:
		return fmt.Errorf("unknown event type %q", draft.Type)
	}

	return nil
}

// ValidatePatch applies the same rules to the fields a partial update
// actually carries.
func ValidatePatch(patch EventPatch) error {
	if patch.Title != nil && len(strings.TrimSpace(*patch.Title)) == 0 {
		return errors.New("title cannot be blank")
	}

	if patch.Day != nil && (*patch.Day < 0 || *patch.Day > 6) {
		return fmt.Errorf("day %d is out of range (0-6, Sunday first)", *patch.Day)
	}

	if patch.Duration != nil && *patch.Duration <= 0 {
		return errors.New("duration must be positive")
	}

	if patch.Type != nil {
		switch *patch.Type {
		case EventTypeCall, EventTypeMeeting, EventTypeVideo:
		default:
			return fmt.Errorf("unknown event type %q", *patch.Type)
		}
	}

	return nil
}
