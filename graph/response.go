// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"errors"
	"fmt"
)

// StructuredResponseKey is the state key a graph must populate with its
// terminal StructuredResponse before its stream quiesces.
const StructuredResponseKey = "structured_response"

// ErrNoStructuredResponse indicates a graph whose final state does not carry
// a structured response. This is a contract violation by the graph, not a
// recoverable condition.
var ErrNoStructuredResponse = errors.New("graph state has no structured response")

// StructuredResponse is the single typed output a graph leaves in its
// persisted state once execution finishes. It describes the outcome of the
// run and, for completed runs, the artifact to publish.
type StructuredResponse struct {
	// TaskState is the outcome state of the run, an A2A task state value
	// such as "completed" or "input-required".
	TaskState string `json:"task_state"`

	// TaskStateMessage is the human-readable outcome message.
	TaskStateMessage string `json:"task_state_message"`

	// ArtifactTitle names the artifact produced by a completed run.
	ArtifactTitle string `json:"artifact_title"`

	// ArtifactDescription describes the artifact.
	ArtifactDescription string `json:"artifact_description"`

	// ArtifactOutput is the artifact payload: either serialized JSON or
	// plain text.
	ArtifactOutput string `json:"artifact_output"`
}

// StructuredResponseFrom extracts the structured response from a state
// snapshot. It returns an error when the snapshot does not carry one, or when
// the stored value has an unexpected type: a graph driven by the adapter must
// populate the structured response before its stream ends.
func StructuredResponseFrom(snapshot *StateSnapshot) (*StructuredResponse, error) {
	if snapshot == nil || snapshot.Values == nil {
		return nil, fmt.Errorf("%w: state snapshot has no values", ErrNoStructuredResponse)
	}

	value, ok := snapshot.Values[StructuredResponseKey]
	if !ok || value == nil {
		return nil, fmt.Errorf("%w: state snapshot has no %q value", ErrNoStructuredResponse, StructuredResponseKey)
	}

	switch sr := value.(type) {
	case *StructuredResponse:
		return sr, nil
	case StructuredResponse:
		return &sr, nil
	default:
		return nil, fmt.Errorf("%w: state value %q has type %T, want *StructuredResponse", ErrNoStructuredResponse, StructuredResponseKey, value)
	}
}
