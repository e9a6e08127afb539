// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-a2a/a2a-graph/a2a"
	"github.com/go-a2a/a2a-graph/server/event"
)

// Updater publishes task lifecycle events for one task to an event queue.
// It guards against updates after a terminal status and is safe for
// concurrent use.
type Updater struct {
	queue     event.Queue
	taskID    string
	contextID string

	mu       sync.Mutex
	terminal bool
}

// NewUpdater creates an Updater bound to the given queue and task.
func NewUpdater(queue event.Queue, taskID, contextID string) (*Updater, error) {
	if queue == nil {
		return nil, fmt.Errorf("event queue cannot be nil")
	}
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}
	if contextID == "" {
		return nil, fmt.Errorf("context ID cannot be empty")
	}

	return &Updater{
		queue:     queue,
		taskID:    taskID,
		contextID: contextID,
	}, nil
}

// TaskID returns the task ID this updater is bound to.
func (u *Updater) TaskID() string {
	return u.taskID
}

// ContextID returns the context ID this updater is bound to.
func (u *Updater) ContextID() string {
	return u.contextID
}

// IsTerminal reports whether a final or terminal status has been published.
func (u *Updater) IsTerminal() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.terminal
}

// UpdateStatus publishes a status update carrying the given state and
// optional message. A final update, or any terminal state, seals the updater:
// further updates fail.
func (u *Updater) UpdateStatus(ctx context.Context, state a2a.TaskState, message *a2a.Message, final bool) error {
	u.mu.Lock()
	if u.terminal {
		u.mu.Unlock()
		return fmt.Errorf("cannot update task %s in terminal state", u.taskID)
	}
	if final || state.IsTerminal() {
		u.terminal = true
	}
	u.mu.Unlock()

	statusEvent := a2a.NewTaskStatusUpdateEvent(u.taskID, u.contextID, state, message, final)
	if err := u.queue.Put(ctx, statusEvent); err != nil {
		return fmt.Errorf("failed to publish status update: %w", err)
	}
	return nil
}

// AddArtifact publishes an artifact update for the task.
func (u *Updater) AddArtifact(ctx context.Context, artifact *a2a.Artifact) error {
	if artifact == nil {
		return fmt.Errorf("artifact cannot be nil")
	}
	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("invalid artifact: %w", err)
	}

	u.mu.Lock()
	if u.terminal {
		u.mu.Unlock()
		return fmt.Errorf("cannot add artifact to task %s in terminal state", u.taskID)
	}
	u.mu.Unlock()

	artifactEvent := a2a.NewTaskArtifactUpdateEvent(u.taskID, u.contextID, artifact)
	if err := u.queue.Put(ctx, artifactEvent); err != nil {
		return fmt.Errorf("failed to publish artifact update: %w", err)
	}
	return nil
}

// StartWork publishes a working status carrying the given message.
func (u *Updater) StartWork(ctx context.Context, message *a2a.Message) error {
	return u.UpdateStatus(ctx, a2a.TaskStateWorking, message, false)
}

// Complete publishes a final completed status carrying the given message.
func (u *Updater) Complete(ctx context.Context, message *a2a.Message) error {
	return u.UpdateStatus(ctx, a2a.TaskStateCompleted, message, true)
}

// Failed publishes a final failed status carrying the given message.
func (u *Updater) Failed(ctx context.Context, message *a2a.Message) error {
	return u.UpdateStatus(ctx, a2a.TaskStateFailed, message, true)
}

// Reject publishes a final rejected status carrying the given message.
func (u *Updater) Reject(ctx context.Context, message *a2a.Message) error {
	return u.UpdateStatus(ctx, a2a.TaskStateRejected, message, true)
}

// RequiresInput publishes a final input-required status carrying the given
// message. The status ends this execution turn; the task itself stays open
// for a follow-up request in the same context.
func (u *Updater) RequiresInput(ctx context.Context, message *a2a.Message) error {
	return u.UpdateStatus(ctx, a2a.TaskStateInputRequired, message, true)
}

// RequiresAuth publishes a final auth-required status carrying the given
// message.
func (u *Updater) RequiresAuth(ctx context.Context, message *a2a.Message) error {
	return u.UpdateStatus(ctx, a2a.TaskStateAuthRequired, message, true)
}
