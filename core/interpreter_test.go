package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockNLUClient is a mock of the NLUClient interface.
type MockNLUClient struct {
	mock.Mock
}

func (m *MockNLUClient) Interpret(ctx context.Context, command string) (*Interpretation, error) {
	args := m.Called(ctx, command)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*Interpretation), args.Error(1)
}

func (m *MockNLUClient) Suggestions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

// 2026-09-02 is a Wednesday.
var interpreterNow = time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)

func newTestInterpreter(store *EventStore, nlu NLUClient) *Interpreter {
	i := NewInterpreter(store, nlu, NewNopArchive())
	i.now = func() time.Time { return interpreterNow }

	return i
}

func TestInterpreter_ScheduleCommand(t *testing.T) {
	t.Parallel()

	store := NewEventStore()
	nlu := new(MockNLUClient)
	nlu.On("Interpret", mock.Anything, "schedule a demo").Return(&Interpretation{
		Action:  ActionSchedule,
		Message: "Scheduled your demo.",
		EventInfo: &EventInfo{
			Title: "Demo",
			Day:   "tomorrow",
			Time:  "10:00 AM",
			Type:  "video call",
		},
	}, nil)

	result := newTestInterpreter(store, nlu).Execute(context.Background(), "schedule a demo")

	assert.Equal(t, ActionSchedule, result.Action)
	assert.Equal(t, "Scheduled your demo.", result.Message)
	require.NotNil(t, result.Event)

	// Tomorrow from Wednesday is Thursday (4); "video call" is a video.
	assert.Equal(t, 4, result.Event.Day)
	assert.Equal(t, 10, result.Event.Hour)
	assert.Equal(t, EventTypeVideo, result.Event.Type)
	assert.Equal(t, 1, store.Len())
	nlu.AssertExpectations(t)
}

func TestInterpreter_CollaboratorFailure(t *testing.T) {
	t.Parallel()

	store := NewEventStore()
	store.Create(EventDraft{Title: "Existing"})

	nlu := new(MockNLUClient)
	nlu.On("Interpret", mock.Anything, mock.Anything).Return(nil, errors.New("service unreachable"))

	result := newTestInterpreter(store, nlu).Execute(context.Background(), "do something")

	assert.Equal(t, ActionUnknown, result.Action)
	assert.NotEmpty(t, result.Message)
	assert.Nil(t, result.Event)
	assert.Equal(t, 1, store.Len(), "a failed command must not touch the store")
	nlu.AssertExpectations(t)
}

func TestInterpreter_MoveCommand(t *testing.T) {
	t.Parallel()

	store := NewEventStore()
	created := store.Create(EventDraft{Title: "Sync", Day: 2, Time: "9:00 AM", With: "Ana"})

	nlu := new(MockNLUClient)
	nlu.On("Interpret", mock.Anything, mock.Anything).Return(&Interpretation{
		Action:  ActionMove,
		Message: "Moved it.",
		EventInfo: &EventInfo{
			OriginalEventId: &created.Id,
			Day:             "friday",
			Time:            "2:00 PM",
		},
	}, nil)

	result := newTestInterpreter(store, nlu).Execute(context.Background(), "move my sync")

	assert.Equal(t, ActionMove, result.Action)
	require.NotNil(t, result.Event)
	assert.Equal(t, 5, result.Event.Day)
	assert.Equal(t, 14, result.Event.Hour)
	assert.Equal(t, "2:00 PM", result.Event.Time)
	// Fields the command did not supply stay untouched.
	assert.Equal(t, "Sync", result.Event.Title)
	assert.Equal(t, "Ana", result.Event.With)
}

func TestInterpreter_MoveMissingEventIsSkipped(t *testing.T) {
	t.Parallel()

	store := NewEventStore()
	missing := int64(999)

	nlu := new(MockNLUClient)
	nlu.On("Interpret", mock.Anything, mock.Anything).Return(&Interpretation{
		Action:    ActionMove,
		Message:   "Moved it.",
		EventInfo: &EventInfo{OriginalEventId: &missing, Day: "friday"},
	}, nil)

	result := newTestInterpreter(store, nlu).Execute(context.Background(), "move event 999")

	assert.Equal(t, ActionMove, result.Action)
	assert.Nil(t, result.Event, "no event may be created for a missing move target")
	assert.Equal(t, 0, store.Len())
}

func TestInterpreter_ListAndUnknownPassThrough(t *testing.T) {
	t.Parallel()

	store := NewEventStore()

	nlu := new(MockNLUClient)
	nlu.On("Interpret", mock.Anything, "what's today").Return(&Interpretation{
		Action:  ActionList,
		Message: "You have 3 events today.",
	}, nil)
	nlu.On("Interpret", mock.Anything, "gibberish").Return(&Interpretation{
		Action:  ActionUnknown,
		Message: "I didn't catch that.",
	}, nil)

	interpreter := newTestInterpreter(store, nlu)

	listResult := interpreter.Execute(context.Background(), "what's today")
	assert.Equal(t, ActionList, listResult.Action)
	assert.Equal(t, "You have 3 events today.", listResult.Message)

	unknownResult := interpreter.Execute(context.Background(), "gibberish")
	assert.Equal(t, ActionUnknown, unknownResult.Action)
	assert.Equal(t, "I didn't catch that.", unknownResult.Message)

	assert.Equal(t, 0, store.Len())
}

func TestInterpreter_ScheduleWithoutEventInfo(t *testing.T) {
	t.Parallel()

	store := NewEventStore()

	nlu := new(MockNLUClient)
	nlu.On("Interpret", mock.Anything, mock.Anything).Return(&Interpretation{
		Action:  ActionSchedule,
		Message: "Scheduled.",
	}, nil)

	result := newTestInterpreter(store, nlu).Execute(context.Background(), "schedule something")

	assert.Equal(t, ActionUnknown, result.Action)
	assert.Equal(t, 0, store.Len())
}

func TestInterpreter_Suggest(t *testing.T) {
	t.Parallel()

	t.Run("passes service suggestions through", func(t *testing.T) {
		t.Parallel()

		nlu := new(MockNLUClient)
		nlu.On("Suggestions", mock.Anything).Return([]string{"Try this"}, nil)

		got := newTestInterpreter(NewEventStore(), nlu).Suggest(context.Background())
		assert.Equal(t, []string{"Try this"}, got)
	})

	t.Run("falls back to the built-in list", func(t *testing.T) {
		t.Parallel()

		nlu := new(MockNLUClient)
		nlu.On("Suggestions", mock.Anything).Return(nil, errors.New("unavailable"))

		got := newTestInterpreter(NewEventStore(), nlu).Suggest(context.Background())
		assert.Len(t, got, 3)
	})
}
