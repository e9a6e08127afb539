// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import "time"

// TaskStatusUpdateEvent represents a change in task status published while an
// agent is working on a task.
type TaskStatusUpdateEvent struct {
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	Final     bool           `json:"final"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// EventKind returns the protocol kind discriminator for status updates.
func (e *TaskStatusUpdateEvent) EventKind() string {
	return StatusUpdateEventKind
}

// NewTaskStatusUpdateEvent creates a status update event for the given task.
func NewTaskStatusUpdateEvent(taskID, contextID string, state TaskState, message *Message, final bool) *TaskStatusUpdateEvent {
	return &TaskStatusUpdateEvent{
		TaskID:    taskID,
		ContextID: contextID,
		Status: TaskStatus{
			State:     state,
			Message:   message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Final: final,
	}
}

// TaskArtifactUpdateEvent represents an artifact produced by a task.
type TaskArtifactUpdateEvent struct {
	TaskID    string         `json:"taskId"`
	ContextID string         `json:"contextId"`
	Artifact  *Artifact      `json:"artifact"`
	Append    bool           `json:"append,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// EventKind returns the protocol kind discriminator for artifact updates.
func (e *TaskArtifactUpdateEvent) EventKind() string {
	return ArtifactUpdateEventKind
}

// NewTaskArtifactUpdateEvent creates an artifact update event for the given task.
func NewTaskArtifactUpdateEvent(taskID, contextID string, artifact *Artifact) *TaskArtifactUpdateEvent {
	return &TaskArtifactUpdateEvent{
		TaskID:    taskID,
		ContextID: contextID,
		Artifact:  artifact,
	}
}
