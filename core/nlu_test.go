package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPNLUClient_Interpret(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/interpret", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "schedule a call", body["command"])

		_ = json.NewEncoder(w).Encode(Interpretation{
			Action:    ActionSchedule,
			Message:   "Done.",
			EventInfo: &EventInfo{Title: "Call", Day: "monday", Time: "10:00 AM"},
		})
	}))
	defer server.Close()

	client := NewHTTPNLUClient(server.URL, time.Second)

	interp, err := client.Interpret(context.Background(), "schedule a call")
	require.NoError(t, err)

	assert.Equal(t, ActionSchedule, interp.Action)
	assert.Equal(t, "Done.", interp.Message)
	require.NotNil(t, interp.EventInfo)
	assert.Equal(t, "monday", interp.EventInfo.Day)
}

func TestHTTPNLUClient_InterpretErrors(t *testing.T) {
	t.Parallel()

	t.Run("non-200 status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewHTTPNLUClient(server.URL, time.Second)

		_, err := client.Interpret(context.Background(), "anything")
		require.Error(t, err)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		t.Parallel()

		client := NewHTTPNLUClient("http://127.0.0.1:1", time.Second)

		_, err := client.Interpret(context.Background(), "anything")
		require.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewHTTPNLUClient(server.URL, 50*time.Millisecond)

		_, err := client.Interpret(context.Background(), "anything")
		require.Error(t, err)
	})
}

func TestHTTPNLUClient_Suggestions(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/suggestions", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string][]string{"suggestions": {"one", "two"}})
	}))
	defer server.Close()

	client := NewHTTPNLUClient(server.URL, time.Second)

	got, err := client.Suggestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)
}

func TestFallbackSuggestions(t *testing.T) {
	t.Parallel()

	got := FallbackSuggestions()
	require.Len(t, got, 3)

	// Callers get a copy, not the shared backing array.
	got[0] = "mutated"
	assert.NotEqual(t, "mutated", FallbackSuggestions()[0])
}
