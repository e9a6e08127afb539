// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package graph defines the surface of a compiled agent-execution graph as
// seen by the A2A adapter: a streaming execution interface, the message
// variants the stream can carry, and the structured response a graph leaves
// in its persisted state when it quiesces.
//
// The package does not execute graphs. Engines that run a directed graph of
// model and tool steps with thread-scoped persisted state implement the Graph
// interface; the adapter consumes it.
package graph

import (
	"context"
	"fmt"
)

// Config carries the per-execution configuration handed to a graph. The
// thread ID is the session key correlating multiple turns of execution to one
// persisted graph state.
type Config struct {
	// ThreadID identifies the persisted state thread this execution reads
	// and writes. Executions with the same thread ID share history.
	ThreadID string
}

// Validate ensures the Config is valid.
func (c Config) Validate() error {
	if c.ThreadID == "" {
		return fmt.Errorf("graph config thread ID cannot be empty")
	}
	return nil
}

// InputMessage is one message handed to a graph as execution input.
type InputMessage struct {
	// Role is the conversational role of the message, typically "user".
	Role string

	// Content is the plain text content of the message.
	Content string
}

// Input is the payload a graph execution starts from.
type Input struct {
	Messages []InputMessage
}

// UserInput builds an Input carrying a single user message.
func UserInput(text string) Input {
	return Input{
		Messages: []InputMessage{{Role: "user", Content: text}},
	}
}

// StreamEvent is one snapshot emitted by a streaming graph execution. In
// value mode every event carries the full ordered list of messages
// accumulated so far, not a delta.
type StreamEvent struct {
	// Messages is the accumulated message list at this tick.
	Messages []Message

	// Err is set when the tick failed. A stream delivering a non-nil Err
	// terminates after that event.
	Err error
}

// StateSnapshot is a graph's persisted state at a point in time, exposed as
// a key-value lookup over the graph's state channels.
type StateSnapshot struct {
	Values map[string]any
}

// Graph is a compiled agent-execution graph. Implementations run a directed
// graph of reasoning and tool steps, persisting state per thread ID.
type Graph interface {
	// Stream starts an execution and returns a channel of value-mode
	// snapshots. The channel is closed once the graph reaches a quiescent
	// state. The returned channel honors ctx cancellation on the producer
	// side; consumers that stop reading must cancel ctx to release the
	// producer.
	Stream(ctx context.Context, input Input, config Config) (<-chan StreamEvent, error)

	// State returns the graph's current persisted state for the thread
	// identified by config.
	State(ctx context.Context, config Config) (*StateSnapshot, error)
}
