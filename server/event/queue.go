// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package event provides the event queue connecting an executing agent to the
// protocol layer that delivers its updates to the caller.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/go-a2a/a2a-graph/a2a"
)

// ErrQueueClosed is returned by queue operations after Close.
var ErrQueueClosed = errors.New("event queue is closed")

// Queue defines the interface for managing events during agent execution.
// It provides a way for agents to send status updates, messages, and
// artifacts back to the client asynchronously.
type Queue interface {
	// Put adds an event to the queue.
	Put(ctx context.Context, event a2a.Event) error

	// Get retrieves the next event from the queue, blocking if necessary.
	Get(ctx context.Context) (a2a.Event, error)

	// Close closes the queue and releases any resources.
	Close() error

	// Done returns a channel that's closed when the queue is closed.
	Done() <-chan struct{}

	// Len returns the current number of events in the queue.
	Len() int
}

// ChannelQueue implements Queue using a buffered Go channel. It is safe for
// concurrent use.
type ChannelQueue struct {
	events chan a2a.Event
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*ChannelQueue)(nil)

// NewChannelQueue creates a new channel-based event queue with the specified
// capacity. A capacity of 0 makes the queue unbuffered.
func NewChannelQueue(capacity int) *ChannelQueue {
	return &ChannelQueue{
		events: make(chan a2a.Event, capacity),
		done:   make(chan struct{}),
	}
}

// Put adds an event to the queue. A Put blocked on a full queue unblocks with
// ErrQueueClosed when the queue is closed.
func (q *ChannelQueue) Put(ctx context.Context, event a2a.Event) error {
	q.mu.RLock()
	closed := q.closed
	q.mu.RUnlock()

	if closed {
		return ErrQueueClosed
	}

	// The send happens outside the lock; done guards against publishing
	// into a closed queue.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrQueueClosed
	case q.events <- event:
		return nil
	}
}

// Get retrieves the next event from the queue, blocking if necessary. Events
// buffered before Close are still delivered.
func (q *ChannelQueue) Get(ctx context.Context) (a2a.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case event := <-q.events:
		return event, nil
	case <-q.done:
		// Drain anything buffered before the close won the race.
		select {
		case event := <-q.events:
			return event, nil
		default:
			return nil, ErrQueueClosed
		}
	}
}

// Close closes the event queue and releases any resources. Closing an
// already-closed queue is a no-op. The events channel itself is never closed;
// a blocked Put observes done instead.
func (q *ChannelQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	return nil
}

// Done returns a channel that's closed when the queue is closed.
func (q *ChannelQueue) Done() <-chan struct{} {
	return q.done
}

// Len returns the current number of events in the queue.
func (q *ChannelQueue) Len() int {
	return len(q.events)
}
