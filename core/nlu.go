package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	ActionSchedule = "schedule"
	ActionMove     = "move"
	ActionList     = "list"
	ActionUnknown  = "unknown"
)

// EventInfo is the structured half of an NLU response. Day can arrive
// as a weekday name, "today"/"tomorrow" or a numeric index, so it is
// kept loosely typed until ResolveDay runs.
type EventInfo struct {
	Title           string `json:"title,omitempty"`
	Day             any    `json:"day,omitempty"`
	Time            string `json:"time,omitempty"`
	With            string `json:"with,omitempty"`
	Type            string `json:"type,omitempty"`
	Company         string `json:"company,omitempty"`
	Description     string `json:"description,omitempty"`
	OriginalEventId *int64 `json:"originalEventId,omitempty"`
}

// Interpretation is the action/message/eventInfo triple the external
// natural-language service returns for a command.
type Interpretation struct {
	Action    string     `json:"action"`
	Message   string     `json:"message"`
	EventInfo *EventInfo `json:"eventInfo,omitempty"`
}

// NLUClient is the boundary to the external natural-language
// understanding service. It may fail; callers own the fallback.
type NLUClient interface {
	Interpret(ctx context.Context, command string) (*Interpretation, error)
	Suggestions(ctx context.Context) ([]string, error)
}

// fallbackSuggestions is served whenever the suggestions fetch fails.
var fallbackSuggestions = []string{
	"Schedule a call with Michael tomorrow at 10 AM",
	"Move my Tuesday meeting to Thursday at 2 PM",
	"What's on my calendar today?",
}

type httpNLUClient struct {
	endpoint string
	client   *http.Client
	tracer   trace.Tracer
}

// NewHTTPNLUClient talks to the NLU service over HTTP with a bounded
// timeout; an expired deadline surfaces as an ordinary error and the
// interpreter downgrades it to an unknown action.
func NewHTTPNLUClient(endpoint string, timeout time.Duration) NLUClient {
	return &httpNLUClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		tracer:   otel.GetTracerProvider().Tracer("calendar-assistant/core"),
	}
}

func (c *httpNLUClient) Interpret(ctx context.Context, command string) (*Interpretation, error) {
	ctx, span := c.tracer.Start(ctx, "nlu.Interpret")
	defer span.End()

	payload, err := json.Marshal(map[string]string{"command": command})
	if err != nil {
		return nil, fmt.Errorf("failed to encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/interpret", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build interpret request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("interpret call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("interpret call returned status %d", resp.StatusCode)
	}

	var interp Interpretation
	if err := json.NewDecoder(resp.Body).Decode(&interp); err != nil {
		return nil, fmt.Errorf("failed to decode interpretation: %w", err)
	}

	return &interp, nil
}

func (c *httpNLUClient) Suggestions(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "nlu.Suggestions")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/suggestions", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestions request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggestions call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestions call returned status %d", resp.StatusCode)
	}

	var body struct {
		Suggestions []string `json:"suggestions"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}

	return body.Suggestions, nil
}

// FallbackSuggestions returns the built-in example prompts.
func FallbackSuggestions() []string {
	return append([]string(nil), fallbackSuggestions...)
}
