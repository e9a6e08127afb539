// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	"github.com/google/uuid"
)

// Task represents a unit of work in the A2A protocol. A task is created on
// the first message of a context and referenced by every subsequent status
// and artifact update for that execution.
type Task struct {
	ID        string         `json:"id"`
	ContextID string         `json:"contextId"`
	Status    TaskStatus     `json:"status"`
	History   []*Message     `json:"history,omitzero"`
	Artifacts []*Artifact    `json:"artifacts,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// EventKind returns the protocol kind discriminator for tasks.
func (t *Task) EventKind() string {
	return TaskEventKind
}

// Validate ensures the Task is valid.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if t.ContextID == "" {
		return fmt.Errorf("task context ID cannot be empty")
	}
	for i, artifact := range t.Artifacts {
		if artifact == nil {
			return fmt.Errorf("task artifact at index %d cannot be nil", i)
		}
		if err := artifact.Validate(); err != nil {
			return fmt.Errorf("task artifact at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewTask creates a new Task from an incoming request message.
//
// The message's task and context IDs are used when present; missing IDs are
// generated. The created task starts in the "submitted" state with the
// request message as its first history entry.
func NewTask(message *Message) (*Task, error) {
	if message == nil {
		return nil, fmt.Errorf("message cannot be nil")
	}
	if err := message.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request message: %w", err)
	}

	taskID := message.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	contextID := message.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}

	return &Task{
		ID:        taskID,
		ContextID: contextID,
		Status: TaskStatus{
			State: TaskStateSubmitted,
		},
		History: []*Message{message},
	}, nil
}
