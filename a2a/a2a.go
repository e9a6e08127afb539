// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2a provides the Agent-to-Agent (A2A) protocol types consumed by
// the graph execution adapter: task states, messages, parts, artifacts, and
// the streaming update events an agent publishes while working on a task.
package a2a

// TaskState represents the state of a Task.
type TaskState string

const (
	// TaskStateSubmitted indicates the task has been submitted.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is being worked on.
	TaskStateWorking TaskState = "working"

	// TaskStateInputRequired indicates the task needs additional input from the user.
	TaskStateInputRequired TaskState = "input-required"

	// TaskStateAuthRequired indicates the task needs authentication before continuing.
	TaskStateAuthRequired TaskState = "auth-required"

	// TaskStateCompleted indicates the task has been completed.
	TaskStateCompleted TaskState = "completed"

	// TaskStateCanceled indicates the task has been canceled.
	TaskStateCanceled TaskState = "canceled"

	// TaskStateFailed indicates the task has failed.
	TaskStateFailed TaskState = "failed"

	// TaskStateRejected indicates the task was rejected by the agent.
	TaskStateRejected TaskState = "rejected"

	// TaskStateUnknown indicates the task state cannot be determined.
	TaskStateUnknown TaskState = "unknown"
)

// IsValid reports whether the state is a known protocol state.
func (s TaskState) IsValid() bool {
	switch s {
	case TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired,
		TaskStateAuthRequired, TaskStateCompleted, TaskStateCanceled,
		TaskStateFailed, TaskStateRejected, TaskStateUnknown:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the state permits no further updates.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCanceled, TaskStateFailed, TaskStateRejected:
		return true
	default:
		return false
	}
}

// Role represents the role of a message sender in the A2A protocol.
type Role string

// Role constants for message senders.
const (
	RoleAgent Role = "agent"
	RoleUser  Role = "user"
)

// Event kind discriminators for objects that flow through an event queue.
const (
	TaskEventKind           = "task"
	MessageEventKind        = "message"
	StatusUpdateEventKind   = "status-update"
	ArtifactUpdateEventKind = "artifact-update"
)

// Event is implemented by every protocol object an agent can publish to an
// event queue: tasks, messages, status updates, and artifact updates.
type Event interface {
	// EventKind returns the protocol kind discriminator of the event.
	EventKind() string
}

// TaskStatus represents the status of a task at a point in time.
type TaskStatus struct {
	// State is the current state of the task.
	State TaskState `json:"state"`

	// Message provides additional context for the status, such as agent
	// progress text or a tool invocation projection.
	Message *Message `json:"message,omitzero"`

	// Timestamp is when this status was set, in RFC 3339 format.
	Timestamp string `json:"timestamp,omitzero"`
}
