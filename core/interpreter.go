package core

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const apologyMessage = "Sorry, I couldn't process that request right now. Please try again."

// CommandResult is what the caller gets back for every command: the
// resolved action, a human-readable message and, for mutations, the
// event the store now holds.
type CommandResult struct {
	Action  string         `json:"action"`
	Message string         `json:"message"`
	Event   *CalendarEvent `json:"event,omitempty"`
}

// Interpreter turns free-text instructions into store mutations. The
// language understanding itself is delegated to the NLU collaborator;
// this component only resolves days, times and types and dispatches
// the action. Every failure path degrades to an unknown action with
// an apology, never an error.
type Interpreter struct {
	store   *EventStore
	nlu     NLUClient
	archive Archive
	now     func() time.Time
	tracer  trace.Tracer
}

func NewInterpreter(store *EventStore, nlu NLUClient, archive Archive) *Interpreter {
	return &Interpreter{
		store:   store,
		nlu:     nlu,
		archive: archive,
		now:     time.Now,
		tracer:  otel.GetTracerProvider().Tracer("calendar-assistant/core"),
	}
}

// Execute runs one command end to end. The store is only touched
// after the collaborator's response has been fully received, so a
// failed or timed-out call leaves the calendar exactly as it was.
func (i *Interpreter) Execute(ctx context.Context, command string) CommandResult {
	ctx, span := i.tracer.Start(ctx, "interpreter.Execute")
	defer span.End()

	interp, err := i.nlu.Interpret(ctx, command)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("language service unavailable, degrading to unknown action")
		return CommandResult{Action: ActionUnknown, Message: apologyMessage}
	}

	switch interp.Action {
	case ActionSchedule:
		return i.schedule(ctx, interp)
	case ActionMove:
		return i.move(ctx, interp)
	case ActionList:
		return CommandResult{Action: ActionList, Message: interp.Message}
	default:
		return CommandResult{Action: ActionUnknown, Message: interp.Message}
	}
}

func (i *Interpreter) schedule(ctx context.Context, interp *Interpretation) CommandResult {
	info := interp.EventInfo
	if info == nil {
		log.Ctx(ctx).Warn().Msg("schedule action without event info, nothing to create")
		return CommandResult{Action: ActionUnknown, Message: apologyMessage}
	}

	event := i.store.Create(EventDraft{
		Title:       info.Title,
		Day:         ResolveDay(info.Day, i.now()),
		Time:        info.Time,
		Type:        InferEventType(info.Type),
		With:        info.With,
		Company:     info.Company,
		Description: info.Description,
	})

	if err := i.archive.RecordCreated(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("event_id", event.Id).Msg("failed to archive created event")
	}

	log.Ctx(ctx).Info().Int64("event_id", event.Id).Int("day", event.Day).
		Int("hour", event.Hour).Str("type", event.Type).Msg("event scheduled by command")

	return CommandResult{Action: ActionSchedule, Message: interp.Message, Event: &event}
}

func (i *Interpreter) move(ctx context.Context, interp *Interpretation) CommandResult {
	info := interp.EventInfo
	if info == nil || info.OriginalEventId == nil {
		log.Ctx(ctx).Warn().Msg("move action without an original event id, skipping")
		return CommandResult{Action: ActionMove, Message: interp.Message}
	}

	patch := EventPatch{}

	if info.Title != "" {
		patch.Title = &info.Title
	}

	if info.Day != nil {
		day := ResolveDay(info.Day, i.now())
		patch.Day = &day
	}

	if info.Time != "" {
		patch.Time = &info.Time
	}

	if info.Type != "" {
		patch.Type = &info.Type
	}

	if info.With != "" {
		patch.With = &info.With
	}

	if info.Description != "" {
		patch.Description = &info.Description
	}

	event, err := i.store.Update(*info.OriginalEventId, patch)
	if err != nil {
		// Defined degraded behavior: a move against a missing event is
		// silently skipped, never an error and never a fresh event.
		log.Ctx(ctx).Warn().Int64("event_id", *info.OriginalEventId).Msg("move target not found, skipping")
		return CommandResult{Action: ActionMove, Message: interp.Message}
	}

	if err := i.archive.RecordUpdated(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("event_id", event.Id).Msg("failed to archive updated event")
	}

	log.Ctx(ctx).Info().Int64("event_id", event.Id).Int("day", event.Day).
		Int("hour", event.Hour).Msg("event moved by command")

	return CommandResult{Action: ActionMove, Message: interp.Message, Event: &event}
}

// Suggest returns example prompts from the NLU service, falling back
// to the built-in list when the fetch fails.
func (i *Interpreter) Suggest(ctx context.Context) []string {
	suggestions, err := i.nlu.Suggestions(ctx)
	if err != nil || len(suggestions) == 0 {
		log.Ctx(ctx).Debug().Err(err).Msg("using built-in suggestions")
		return FallbackSuggestions()
	}

	return suggestions
}
