// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package execution provides the core execution framework for A2A agents:
// the AgentExecutor contract and the request context handed to it.
package execution

import (
	"context"
	"maps"
	"time"

	"github.com/go-a2a/a2a-graph/a2a"
	"github.com/go-a2a/a2a-graph/server/event"
)

// AgentExecutor defines the interface that all A2A agents must implement.
type AgentExecutor interface {
	// Execute handles an incoming request and produces responses via the
	// event queue: status updates, messages, and artifacts. It returns only
	// after the final update for this call has been enqueued, or with the
	// error that aborted the execution.
	Execute(ctx context.Context, reqCtx *RequestContext, queue event.Queue) error

	// Cancel handles a cancellation request for a running task.
	Cancel(ctx context.Context, reqCtx *RequestContext, queue event.Queue) error
}

// RequestContext provides context about an incoming request to an agent
// executor. It contains everything from the request that the executor needs
// to process the task.
type RequestContext struct {
	// TaskID is the unique identifier for the task being executed.
	TaskID string

	// ContextID is the server-generated ID for contextual alignment across
	// interactions.
	ContextID string

	// Message contains the incoming message from the user.
	Message *a2a.Message

	// Task contains the current task if this is a continuation of an
	// existing task. Nil on the first request of a context.
	Task *a2a.Task

	// Metadata contains any additional metadata from the request.
	Metadata map[string]any

	// CreatedAt records when this request context was created.
	CreatedAt time.Time
}

// NewRequestContext creates a new RequestContext with the provided parameters.
func NewRequestContext(taskID, contextID string, message *a2a.Message) *RequestContext {
	return &RequestContext{
		TaskID:    taskID,
		ContextID: contextID,
		Message:   message,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]any),
	}
}

// WithTask adds task information to the request context.
func (rc *RequestContext) WithTask(task *a2a.Task) *RequestContext {
	rc.Task = task
	return rc
}

// WithMetadata merges metadata into the request context.
func (rc *RequestContext) WithMetadata(metadata map[string]any) *RequestContext {
	if rc.Metadata == nil {
		rc.Metadata = make(map[string]any)
	}
	maps.Copy(rc.Metadata, metadata)
	return rc
}

// UserInput returns the text content of the request message, joining
// multiple text parts with newlines. It returns an empty string when the
// request carries no message.
func (rc *RequestContext) UserInput() string {
	return a2a.GetMessageText(rc.Message, "\n")
}
