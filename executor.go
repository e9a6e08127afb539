// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2agraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/go-a2a/a2a-graph/a2a"
	"github.com/go-a2a/a2a-graph/graph"
	"github.com/go-a2a/a2a-graph/server/event"
	"github.com/go-a2a/a2a-graph/server/execution"
	"github.com/go-a2a/a2a-graph/server/task"
)

// Metadata keys and values tagging tool activity on status update messages.
const (
	// MetadataTypeKey is the metadata key carrying the event kind of a
	// status message.
	MetadataTypeKey = "type"

	// MetadataTypeToolCall marks a message projecting a tool invocation
	// request.
	MetadataTypeToolCall = "tool-call"

	// MetadataTypeToolCallResult marks a message projecting a tool
	// execution result.
	MetadataTypeToolCallResult = "tool-call-result"

	// MetadataToolCallIDKey is the metadata key carrying the tool call ID.
	MetadataToolCallIDKey = "toolCallId"

	// MetadataToolCallNameKey is the metadata key carrying the tool name.
	MetadataToolCallNameKey = "toolCallName"
)

var (
	// ErrNoMessage indicates a request context without a message.
	ErrNoMessage = errors.New("no message in request context")

	// ErrCancelNotSupported indicates that cancellation is not supported by
	// the graph executor.
	ErrCancelNotSupported = errors.New("cancel not supported")
)

// GraphExecutor is an A2A agent executor for a compiled agent-execution
// graph. It drives one graph execution per request, translating the graph's
// internal message stream into protocol status updates, and publishes the
// graph's terminal structured response as the final status and, for completed
// runs, an artifact.
//
// Multi-turn state is kept on the graph side: the task's context ID is used
// as the graph's thread ID, so follow-up requests in the same context resume
// the same persisted graph state.
type GraphExecutor struct {
	graph  graph.Graph
	logger *slog.Logger
}

var _ execution.AgentExecutor = (*GraphExecutor)(nil)

// Option configures a GraphExecutor.
type Option func(*GraphExecutor)

// WithLogger sets the logger used by the executor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *GraphExecutor) {
		e.logger = logger
	}
}

// NewGraphExecutor creates a GraphExecutor driving the given graph.
func NewGraphExecutor(g graph.Graph, opts ...Option) *GraphExecutor {
	e := &GraphExecutor{
		graph:  g,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute drives one full graph execution for the request and returns after
// the final status for this call has been enqueued.
//
// The request message's text is the graph input; the task's context ID is the
// graph thread ID. Each stream tick exposes the full accumulated message
// list; only newly seen messages (by ID) are translated. Once the stream is
// exhausted the graph's persisted state must carry a structured response,
// which determines the final status and artifact.
//
// Execution is not bounded internally: ctx is the caller's mechanism for
// timeouts and cancellation mid-stream.
func (e *GraphExecutor) Execute(ctx context.Context, reqCtx *execution.RequestContext, queue event.Queue) error {
	if reqCtx == nil || reqCtx.Message == nil {
		return ErrNoMessage
	}

	query := reqCtx.UserInput()

	t := reqCtx.Task
	if t == nil {
		created, err := a2a.NewTask(reqCtx.Message)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		t = created
		if err := queue.Put(ctx, t); err != nil {
			return fmt.Errorf("failed to publish task: %w", err)
		}
	}

	updater, err := task.NewUpdater(queue, t.ID, t.ContextID)
	if err != nil {
		return err
	}

	config := graph.Config{ThreadID: t.ContextID}
	stream, err := e.graph.Stream(ctx, graph.UserInput(query), config)
	if err != nil {
		return fmt.Errorf("failed to open graph stream: %w", err)
	}

	seen := make(map[string]struct{})
	for tick := range stream {
		if tick.Err != nil {
			return fmt.Errorf("graph stream failed: %w", tick.Err)
		}
		if len(tick.Messages) == 0 {
			continue
		}

		message := tick.Messages[len(tick.Messages)-1]
		if _, ok := seen[message.MessageID()]; ok {
			continue
		}
		seen[message.MessageID()] = struct{}{}

		e.logger.InfoContext(ctx, "graph message",
			slog.String("task_id", t.ID),
			slog.String("message_id", message.MessageID()),
			slog.String("message_type", fmt.Sprintf("%T", message)),
		)

		switch m := message.(type) {
		case *graph.AssistantMessage:
			if err := e.handleAssistantMessage(ctx, m, t, updater); err != nil {
				return err
			}
		case *graph.ToolMessage:
			if err := e.handleToolMessage(ctx, m, t, updater); err != nil {
				return err
			}
		default:
			// Other message kinds are not protocol-visible.
		}
	}

	return e.handleStructuredResponse(ctx, config, t, updater)
}

// Cancel is not supported by the graph executor: a started execution runs to
// completion or to a fatal error. It always returns ErrCancelNotSupported
// and enqueues nothing.
func (e *GraphExecutor) Cancel(ctx context.Context, reqCtx *execution.RequestContext, queue event.Queue) error {
	return ErrCancelNotSupported
}

// handleAssistantMessage publishes one working status per text element of
// the message content, then forwards the message's tool calls in order.
func (e *GraphExecutor) handleAssistantMessage(ctx context.Context, m *graph.AssistantMessage, t *a2a.Task, updater *task.Updater) error {
	content := m.Content

	switch {
	case !content.IsBlocks && content.Text != "":
		if err := updater.StartWork(ctx, a2a.NewAgentTextMessage(content.Text, t.ContextID, t.ID)); err != nil {
			return err
		}
	case content.IsBlocks:
		for _, block := range content.Blocks {
			switch {
			case block.Type == "":
				// Bare string element, forwarded verbatim.
				if err := updater.StartWork(ctx, a2a.NewAgentTextMessage(block.Text, t.ContextID, t.ID)); err != nil {
					return err
				}
			case block.Type == graph.TextBlockType && block.Text != "":
				if err := updater.StartWork(ctx, a2a.NewAgentTextMessage(block.Text, t.ContextID, t.ID)); err != nil {
					return err
				}
			}
		}
	}

	for _, call := range m.ToolCalls {
		if err := e.handleToolCall(ctx, call, t, updater); err != nil {
			return err
		}
	}
	return nil
}

// handleToolCall projects one tool invocation request into a working status
// carrying the call's argument payload verbatim.
func (e *GraphExecutor) handleToolCall(ctx context.Context, call graph.ToolCall, t *a2a.Task, updater *task.Updater) error {
	// The argument payload is forwarded verbatim, valid or not, so the
	// message is built directly rather than through a validating constructor.
	message := &a2a.Message{
		Role:      a2a.RoleAgent,
		Parts:     []a2a.Part{a2a.NewDataPart(call.Args)},
		MessageID: uuid.NewString(),
		TaskID:    t.ID,
		ContextID: t.ContextID,
		Metadata: map[string]any{
			MetadataTypeKey:         MetadataTypeToolCall,
			MetadataToolCallIDKey:   call.ID,
			MetadataToolCallNameKey: call.Name,
		},
	}
	return updater.StartWork(ctx, message)
}

// handleToolMessage projects one tool execution result into a working
// status. JSON results become structured data parts; anything else is
// forwarded as plain text.
func (e *GraphExecutor) handleToolMessage(ctx context.Context, m *graph.ToolMessage, t *a2a.Task, updater *task.Updater) error {
	// Tool output is forwarded even when empty, so the message is built
	// directly rather than through a validating constructor.
	message := &a2a.Message{
		Role:      a2a.RoleAgent,
		Parts:     []a2a.Part{parseDataOrText(m.Content)},
		MessageID: uuid.NewString(),
		TaskID:    t.ID,
		ContextID: t.ContextID,
		Metadata: map[string]any{
			MetadataTypeKey:         MetadataTypeToolCallResult,
			MetadataToolCallIDKey:   m.ToolCallID,
			MetadataToolCallNameKey: m.ToolName,
		},
	}
	return updater.StartWork(ctx, message)
}

// handleStructuredResponse reads the graph's post-stream state and publishes
// the final status for this call. Completed runs publish their artifact
// strictly before the final completed status.
func (e *GraphExecutor) handleStructuredResponse(ctx context.Context, config graph.Config, t *a2a.Task, updater *task.Updater) error {
	snapshot, err := e.graph.State(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to read graph state: %w", err)
	}

	response, err := graph.StructuredResponseFrom(snapshot)
	if err != nil {
		return err
	}

	state := a2a.TaskState(response.TaskState)
	if !state.IsValid() {
		return fmt.Errorf("structured response carries invalid task state %q", response.TaskState)
	}
	message := a2a.NewAgentTextMessage(response.TaskStateMessage, t.ContextID, t.ID)

	if state != a2a.TaskStateCompleted {
		return updater.UpdateStatus(ctx, state, message, true)
	}

	artifact, err := buildArtifact(response)
	if err != nil {
		return err
	}
	if err := updater.AddArtifact(ctx, artifact); err != nil {
		return err
	}
	return updater.Complete(ctx, message)
}

// buildArtifact builds the artifact for a completed structured response:
// data-shaped when the output parses as JSON, text-shaped otherwise.
func buildArtifact(response *graph.StructuredResponse) (*a2a.Artifact, error) {
	var artifact *a2a.Artifact
	var err error

	switch part := parseDataOrText(response.ArtifactOutput).(type) {
	case *a2a.DataPart:
		artifact, err = a2a.NewDataArtifact(response.ArtifactTitle, part.Data, response.ArtifactDescription)
	case *a2a.TextPart:
		artifact, err = a2a.NewTextArtifact(response.ArtifactTitle, part.Text, response.ArtifactDescription)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build artifact: %w", err)
	}
	return artifact, nil
}
