// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package task provides task persistence and lifecycle publishing for A2A
// agent execution: task stores, the task updater, and the push notification
// sender.
package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-a2a/a2a-graph/a2a"
)

// Store defines the interface for task persistence.
type Store interface {
	// Save persists a task, creating or updating it.
	Save(ctx context.Context, task *a2a.Task) error

	// Get retrieves a task by its ID. It returns NotFoundError when no
	// task with that ID exists.
	Get(ctx context.Context, taskID string) (*a2a.Task, error)

	// Delete removes a task by its ID.
	Delete(ctx context.Context, taskID string) error
}

// NotFoundError indicates a task ID that is not present in a store.
type NotFoundError struct {
	TaskID string
}

// Error returns the error message.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// StoreError wraps a failure of a store operation with its context.
type StoreError struct {
	Op     string
	TaskID string
	Err    error
}

// Error returns the error message.
func (e StoreError) Error() string {
	return fmt.Sprintf("task store %s %s: %v", e.Op, e.TaskID, e.Err)
}

// Unwrap returns the underlying error.
func (e StoreError) Unwrap() error {
	return e.Err
}

// InMemoryStore is a thread-safe in-memory implementation of Store.
type InMemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*a2a.Task
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory task store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tasks: make(map[string]*a2a.Task),
	}
}

// Save persists a task in memory.
func (s *InMemoryStore) Save(ctx context.Context, task *a2a.Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return StoreError{Op: "save", TaskID: task.ID, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return nil
}

// Get retrieves a task by its ID.
func (s *InMemoryStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, NotFoundError{TaskID: taskID}
	}
	return task, nil
}

// Delete removes a task by its ID. Deleting an absent task is a no-op.
func (s *InMemoryStore) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, taskID)
	return nil
}

// List returns all stored tasks in unspecified order.
func (s *InMemoryStore) List(ctx context.Context) []*a2a.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*a2a.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}
