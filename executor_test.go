// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2agraph

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/a2a-graph/a2a"
	"github.com/go-a2a/a2a-graph/graph"
	"github.com/go-a2a/a2a-graph/server/event"
	"github.com/go-a2a/a2a-graph/server/execution"
)

// fakeGraph replays scripted value-mode snapshots and serves a fixed state.
type fakeGraph struct {
	ticks     [][]graph.Message
	tickErr   error
	state     *graph.StateSnapshot
	stateErr  error
	streamErr error

	gotInput  graph.Input
	gotConfig graph.Config
}

func (g *fakeGraph) Stream(ctx context.Context, input graph.Input, config graph.Config) (<-chan graph.StreamEvent, error) {
	g.gotInput = input
	g.gotConfig = config
	if g.streamErr != nil {
		return nil, g.streamErr
	}

	ch := make(chan graph.StreamEvent, len(g.ticks)+1)
	for _, messages := range g.ticks {
		ch <- graph.StreamEvent{Messages: messages}
	}
	if g.tickErr != nil {
		ch <- graph.StreamEvent{Err: g.tickErr}
	}
	close(ch)
	return ch, nil
}

func (g *fakeGraph) State(ctx context.Context, config graph.Config) (*graph.StateSnapshot, error) {
	return g.state, g.stateErr
}

// completedState builds a snapshot carrying a completed structured response
// with the given artifact output.
func completedState(message, output string) *graph.StateSnapshot {
	return &graph.StateSnapshot{
		Values: map[string]any{
			graph.StructuredResponseKey: &graph.StructuredResponse{
				TaskState:           string(a2a.TaskStateCompleted),
				TaskStateMessage:    message,
				ArtifactTitle:       "result",
				ArtifactDescription: "final output",
				ArtifactOutput:      output,
			},
		},
	}
}

// newTestRequest builds a request context for an existing task so executions
// do not emit a task creation event.
func newTestRequest(t *testing.T) *execution.RequestContext {
	t.Helper()
	message := a2a.NewUserTextMessage("hello", "ctx-1", "task-1")
	existing := &a2a.Task{
		ID:        "task-1",
		ContextID: "ctx-1",
		Status:    a2a.TaskStatus{State: a2a.TaskStateSubmitted},
		History:   []*a2a.Message{message},
	}
	return execution.NewRequestContext("task-1", "ctx-1", message).WithTask(existing)
}

// runExecute drives one execution and returns every enqueued event alongside
// the execution error.
func runExecute(t *testing.T, g graph.Graph, reqCtx *execution.RequestContext) ([]a2a.Event, error) {
	t.Helper()

	queue := event.NewChannelQueue(64)
	execErr := NewGraphExecutor(g).Execute(t.Context(), reqCtx, queue)
	queue.Close()

	var events []a2a.Event
	for {
		ev, err := queue.Get(context.Background())
		if err != nil {
			break
		}
		events = append(events, ev)
	}
	return events, execErr
}

// statusEvents filters the status updates out of an event sequence.
func statusEvents(events []a2a.Event) []*a2a.TaskStatusUpdateEvent {
	var statuses []*a2a.TaskStatusUpdateEvent
	for _, ev := range events {
		if status, ok := ev.(*a2a.TaskStatusUpdateEvent); ok {
			statuses = append(statuses, status)
		}
	}
	return statuses
}

func statusText(t *testing.T, status *a2a.TaskStatusUpdateEvent) string {
	t.Helper()
	if status.Status.Message == nil {
		t.Fatal("status event has no message")
	}
	return a2a.GetMessageText(status.Status.Message, "\n")
}

func TestExecute_MissingMessage(t *testing.T) {
	g := &fakeGraph{state: completedState("done", "ok")}
	reqCtx := execution.NewRequestContext("task-1", "ctx-1", nil)

	events, err := runExecute(t, g, reqCtx)
	if !errors.Is(err, ErrNoMessage) {
		t.Fatalf("Execute() error = %v, want ErrNoMessage", err)
	}
	if len(events) != 0 {
		t.Errorf("Execute() emitted %d events before failing, want 0", len(events))
	}
}

func TestExecute_CreatesTaskOnFirstRequest(t *testing.T) {
	g := &fakeGraph{state: completedState("done", "ok")}
	reqCtx := execution.NewRequestContext("", "", a2a.NewUserTextMessage("hello", "", ""))

	events, err := runExecute(t, g, reqCtx)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(events) == 0 {
		t.Fatal("Execute() emitted no events")
	}

	created, ok := events[0].(*a2a.Task)
	if !ok {
		t.Fatalf("first event = %T, want *a2a.Task", events[0])
	}
	if created.ID == "" || created.ContextID == "" {
		t.Errorf("created task has empty IDs: %+v", created)
	}
	if created.Status.State != a2a.TaskStateSubmitted {
		t.Errorf("created task state = %v, want %v", created.Status.State, a2a.TaskStateSubmitted)
	}
	if g.gotConfig.ThreadID != created.ContextID {
		t.Errorf("graph thread ID = %q, want context ID %q", g.gotConfig.ThreadID, created.ContextID)
	}
}

func TestExecute_PassesUserInputToGraph(t *testing.T) {
	g := &fakeGraph{state: completedState("done", "ok")}

	if _, err := runExecute(t, g, newTestRequest(t)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := graph.UserInput("hello")
	if diff := cmp.Diff(want, g.gotInput); diff != "" {
		t.Errorf("graph input mismatch (-want +got):\n%s", diff)
	}
	if g.gotConfig.ThreadID != "ctx-1" {
		t.Errorf("graph thread ID = %q, want %q", g.gotConfig.ThreadID, "ctx-1")
	}
}

func TestExecute_DeduplicatesMessages(t *testing.T) {
	assistant := &graph.AssistantMessage{ID: "m1", Content: graph.TextContent("thinking")}
	g := &fakeGraph{
		// The same last message re-appears on three consecutive ticks, as a
		// value-mode stream re-emits the accumulated list.
		ticks: [][]graph.Message{
			{assistant},
			{assistant},
			{assistant},
		},
		state: completedState("done", "ok"),
	}

	events, err := runExecute(t, g, newTestRequest(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	statuses := statusEvents(events)
	// One working status for the assistant text, one final completed status.
	if len(statuses) != 2 {
		t.Fatalf("got %d status events, want 2", len(statuses))
	}
	if got := statusText(t, statuses[0]); got != "thinking" {
		t.Errorf("first status text = %q, want %q", got, "thinking")
	}
}

func TestExecute_AssistantMessage(t *testing.T) {
	tests := map[string]struct {
		content   graph.Content
		wantTexts []string
	}{
		"plain string content": {
			content:   graph.TextContent("working on it"),
			wantTexts: []string{"working on it"},
		},
		"empty string content": {
			content:   graph.TextContent(""),
			wantTexts: nil,
		},
		"mixed block list": {
			content: graph.BlockContent(
				graph.StringBlock("first"),
				graph.TextBlock("second"),
				graph.ContentBlock{Type: "thinking", Text: "hidden"},
				graph.TextBlock(""),
			),
			wantTexts: []string{"first", "second"},
		},
		"only unrelated blocks": {
			content: graph.BlockContent(
				graph.ContentBlock{Type: "image", Text: "ignored"},
			),
			wantTexts: nil,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			g := &fakeGraph{
				ticks: [][]graph.Message{
					{&graph.AssistantMessage{ID: "m1", Content: tc.content}},
				},
				state: completedState("done", "ok"),
			}

			events, err := runExecute(t, g, newTestRequest(t))
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			statuses := statusEvents(events)
			// The final completed status is always last; everything before
			// it came from the assistant message.
			working := statuses[:len(statuses)-1]

			var texts []string
			for _, status := range working {
				if status.Status.State != a2a.TaskStateWorking {
					t.Errorf("status state = %v, want %v", status.Status.State, a2a.TaskStateWorking)
				}
				texts = append(texts, statusText(t, status))
			}
			if diff := cmp.Diff(tc.wantTexts, texts); diff != "" {
				t.Errorf("status texts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecute_ToolCallProjection(t *testing.T) {
	args := map[string]any{"city": "Berlin"}
	g := &fakeGraph{
		ticks: [][]graph.Message{
			{&graph.AssistantMessage{
				ID:      "m1",
				Content: graph.TextContent("checking the weather"),
				ToolCalls: []graph.ToolCall{
					{ID: "call-1", Name: "get_weather", Args: args},
				},
			}},
		},
		state: completedState("done", "ok"),
	}

	events, err := runExecute(t, g, newTestRequest(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	statuses := statusEvents(events)
	// Text status, tool-call status, final completed status.
	if len(statuses) != 3 {
		t.Fatalf("got %d status events, want 3", len(statuses))
	}

	toolCall := statuses[1]
	if toolCall.Status.State != a2a.TaskStateWorking {
		t.Errorf("tool call status state = %v, want %v", toolCall.Status.State, a2a.TaskStateWorking)
	}

	message := toolCall.Status.Message
	wantMetadata := map[string]any{
		MetadataTypeKey:         MetadataTypeToolCall,
		MetadataToolCallIDKey:   "call-1",
		MetadataToolCallNameKey: "get_weather",
	}
	if diff := cmp.Diff(wantMetadata, message.Metadata); diff != "" {
		t.Errorf("tool call metadata mismatch (-want +got):\n%s", diff)
	}

	if len(message.Parts) != 1 {
		t.Fatalf("tool call message has %d parts, want 1", len(message.Parts))
	}
	dataPart, ok := message.Parts[0].(*a2a.DataPart)
	if !ok {
		t.Fatalf("tool call part = %T, want *a2a.DataPart", message.Parts[0])
	}
	if diff := cmp.Diff(args, dataPart.Data); diff != "" {
		t.Errorf("tool call args mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_ToolResult(t *testing.T) {
	tests := map[string]struct {
		content  string
		wantData any
		wantText string
	}{
		"json object result": {
			content:  `{"a":1}`,
			wantData: map[string]any{"a": float64(1)},
		},
		"json array result": {
			content:  `[1,2]`,
			wantData: []any{float64(1), float64(2)},
		},
		"plain text result": {
			content:  "not json",
			wantText: "not json",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			g := &fakeGraph{
				ticks: [][]graph.Message{
					{&graph.ToolMessage{
						ID:         "m1",
						Content:    tc.content,
						ToolCallID: "call-1",
						ToolName:   "get_weather",
					}},
				},
				state: completedState("done", "ok"),
			}

			events, err := runExecute(t, g, newTestRequest(t))
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			statuses := statusEvents(events)
			if len(statuses) != 2 {
				t.Fatalf("got %d status events, want 2", len(statuses))
			}

			result := statuses[0]
			message := result.Status.Message
			wantMetadata := map[string]any{
				MetadataTypeKey:         MetadataTypeToolCallResult,
				MetadataToolCallIDKey:   "call-1",
				MetadataToolCallNameKey: "get_weather",
			}
			if diff := cmp.Diff(wantMetadata, message.Metadata); diff != "" {
				t.Errorf("tool result metadata mismatch (-want +got):\n%s", diff)
			}

			if len(message.Parts) != 1 {
				t.Fatalf("tool result message has %d parts, want 1", len(message.Parts))
			}
			switch part := message.Parts[0].(type) {
			case *a2a.DataPart:
				if tc.wantData == nil {
					t.Fatalf("got data part %v, want text part", part.Data)
				}
				if diff := cmp.Diff(tc.wantData, part.Data); diff != "" {
					t.Errorf("tool result data mismatch (-want +got):\n%s", diff)
				}
			case *a2a.TextPart:
				if tc.wantText == "" {
					t.Fatalf("got text part %q, want data part", part.Text)
				}
				if part.Text != tc.wantText {
					t.Errorf("tool result text = %q, want %q", part.Text, tc.wantText)
				}
			default:
				t.Fatalf("tool result part = %T", message.Parts[0])
			}
		})
	}
}

func TestExecute_CompletedArtifactOrdering(t *testing.T) {
	tests := map[string]struct {
		output   string
		wantData any
		wantText string
	}{
		"json output yields data artifact": {
			output:   `{"x":1}`,
			wantData: map[string]any{"x": float64(1)},
		},
		"plain output yields text artifact": {
			output:   "plain text",
			wantText: "plain text",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			g := &fakeGraph{state: completedState("all done", tc.output)}

			events, err := runExecute(t, g, newTestRequest(t))
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if len(events) != 2 {
				t.Fatalf("got %d events, want 2", len(events))
			}

			artifactEvent, ok := events[0].(*a2a.TaskArtifactUpdateEvent)
			if !ok {
				t.Fatalf("first event = %T, want *a2a.TaskArtifactUpdateEvent", events[0])
			}
			artifact := artifactEvent.Artifact
			if artifact.Name != "result" {
				t.Errorf("artifact name = %q, want %q", artifact.Name, "result")
			}
			if len(artifact.Parts) != 1 {
				t.Fatalf("artifact has %d parts, want 1", len(artifact.Parts))
			}
			switch part := artifact.Parts[0].(type) {
			case *a2a.DataPart:
				if tc.wantData == nil {
					t.Fatalf("got data artifact %v, want text artifact", part.Data)
				}
				if diff := cmp.Diff(tc.wantData, part.Data); diff != "" {
					t.Errorf("artifact data mismatch (-want +got):\n%s", diff)
				}
			case *a2a.TextPart:
				if tc.wantText == "" {
					t.Fatalf("got text artifact %q, want data artifact", part.Text)
				}
				if part.Text != tc.wantText {
					t.Errorf("artifact text = %q, want %q", part.Text, tc.wantText)
				}
			}

			final, ok := events[1].(*a2a.TaskStatusUpdateEvent)
			if !ok {
				t.Fatalf("second event = %T, want *a2a.TaskStatusUpdateEvent", events[1])
			}
			if final.Status.State != a2a.TaskStateCompleted {
				t.Errorf("final state = %v, want %v", final.Status.State, a2a.TaskStateCompleted)
			}
			if !final.Final {
				t.Error("final status event is not marked final")
			}
			if got := statusText(t, final); got != "all done" {
				t.Errorf("final status text = %q, want %q", got, "all done")
			}
		})
	}
}

func TestExecute_NonCompletedOutcome(t *testing.T) {
	g := &fakeGraph{
		state: &graph.StateSnapshot{
			Values: map[string]any{
				graph.StructuredResponseKey: &graph.StructuredResponse{
					TaskState:        string(a2a.TaskStateInputRequired),
					TaskStateMessage: "need more info",
				},
			},
		},
	}

	events, err := runExecute(t, g, newTestRequest(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	status, ok := events[0].(*a2a.TaskStatusUpdateEvent)
	if !ok {
		t.Fatalf("event = %T, want *a2a.TaskStatusUpdateEvent", events[0])
	}
	if status.Status.State != a2a.TaskStateInputRequired {
		t.Errorf("state = %v, want %v", status.Status.State, a2a.TaskStateInputRequired)
	}
	if !status.Final {
		t.Error("status event is not marked final")
	}
	if got := statusText(t, status); got != "need more info" {
		t.Errorf("status text = %q, want %q", got, "need more info")
	}
}

func TestExecute_InvalidOutcomeState(t *testing.T) {
	g := &fakeGraph{
		ticks: [][]graph.Message{
			{&graph.AssistantMessage{ID: "m1", Content: graph.TextContent("working")}},
		},
		state: &graph.StateSnapshot{
			Values: map[string]any{
				graph.StructuredResponseKey: &graph.StructuredResponse{
					TaskState:        "finished",
					TaskStateMessage: "done-ish",
				},
			},
		},
	}

	events, err := runExecute(t, g, newTestRequest(t))
	if err == nil {
		t.Fatal("Execute() error = nil, want error for unrecognized outcome state")
	}

	for _, status := range statusEvents(events) {
		if status.Final {
			t.Error("no final status may be emitted for an unrecognized outcome state")
		}
	}
}

func TestExecute_MissingStructuredResponse(t *testing.T) {
	tests := map[string]struct {
		state *graph.StateSnapshot
	}{
		"nil snapshot values":  {state: &graph.StateSnapshot{}},
		"absent key":           {state: &graph.StateSnapshot{Values: map[string]any{}}},
		"nil value under key":  {state: &graph.StateSnapshot{Values: map[string]any{graph.StructuredResponseKey: nil}}},
		"wrong type under key": {state: &graph.StateSnapshot{Values: map[string]any{graph.StructuredResponseKey: "oops"}}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			g := &fakeGraph{
				ticks: [][]graph.Message{
					{&graph.AssistantMessage{ID: "m1", Content: graph.TextContent("partial")}},
				},
				state: tc.state,
			}

			events, err := runExecute(t, g, newTestRequest(t))
			if !errors.Is(err, graph.ErrNoStructuredResponse) {
				t.Fatalf("Execute() error = %v, want ErrNoStructuredResponse", err)
			}

			// Previously emitted status events stay visible; no rollback.
			statuses := statusEvents(events)
			if len(statuses) != 1 {
				t.Errorf("got %d status events, want the 1 emitted before the failure", len(statuses))
			}
			for _, status := range statuses {
				if status.Final {
					t.Error("no final status may be emitted on a contract violation")
				}
			}
		})
	}
}

func TestExecute_StreamTickError(t *testing.T) {
	tickErr := errors.New("node exploded")
	g := &fakeGraph{
		ticks: [][]graph.Message{
			{&graph.AssistantMessage{ID: "m1", Content: graph.TextContent("starting")}},
		},
		tickErr: tickErr,
		state:   completedState("done", "ok"),
	}

	events, err := runExecute(t, g, newTestRequest(t))
	if !errors.Is(err, tickErr) {
		t.Fatalf("Execute() error = %v, want %v", err, tickErr)
	}
	if len(statusEvents(events)) != 1 {
		t.Errorf("events emitted before the failure must remain visible")
	}
}

func TestExecute_IgnoresOtherMessageKinds(t *testing.T) {
	g := &fakeGraph{
		ticks: [][]graph.Message{
			{&graph.HumanMessage{ID: "m1", Content: "hello"}},
			{&graph.HumanMessage{ID: "m1", Content: "hello"}, &graph.SystemMessage{ID: "m2", Content: "be helpful"}},
		},
		state: completedState("done", "ok"),
	}

	events, err := runExecute(t, g, newTestRequest(t))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	statuses := statusEvents(events)
	if len(statuses) != 1 {
		t.Fatalf("got %d status events, want only the final completed status", len(statuses))
	}
	if statuses[0].Status.State != a2a.TaskStateCompleted {
		t.Errorf("state = %v, want %v", statuses[0].Status.State, a2a.TaskStateCompleted)
	}
}

func TestCancel(t *testing.T) {
	g := &fakeGraph{state: completedState("done", "ok")}
	queue := event.NewChannelQueue(8)
	defer queue.Close()

	err := NewGraphExecutor(g).Cancel(t.Context(), newTestRequest(t), queue)
	if !errors.Is(err, ErrCancelNotSupported) {
		t.Fatalf("Cancel() error = %v, want ErrCancelNotSupported", err)
	}
	if queue.Len() != 0 {
		t.Errorf("Cancel() enqueued %d events, want 0", queue.Len())
	}
}

func TestParseDataOrText(t *testing.T) {
	tests := map[string]struct {
		raw      string
		wantData any
		wantText string
	}{
		"object":       {raw: `{"a":1}`, wantData: map[string]any{"a": float64(1)}},
		"array":        {raw: `[true]`, wantData: []any{true}},
		"number":       {raw: `42`, wantData: float64(42)},
		"plain text":   {raw: "not json", wantText: "not json"},
		"empty string": {raw: "", wantText: ""},
		"json null":    {raw: "null", wantText: "null"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			switch part := parseDataOrText(tc.raw).(type) {
			case *a2a.DataPart:
				if tc.wantData == nil {
					t.Fatalf("got data part %v, want text part", part.Data)
				}
				if diff := cmp.Diff(tc.wantData, part.Data); diff != "" {
					t.Errorf("data mismatch (-want +got):\n%s", diff)
				}
			case *a2a.TextPart:
				if tc.wantData != nil {
					t.Fatalf("got text part %q, want data part", part.Text)
				}
				if part.Text != tc.wantText {
					t.Errorf("text = %q, want %q", part.Text, tc.wantText)
				}
			}
		})
	}
}
