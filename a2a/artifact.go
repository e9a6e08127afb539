// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

// Artifact represents a generated output from a task, which can contain
// multiple parts. Artifacts are distinct from status messages: they are the
// durable results of a task rather than progress commentary.
type Artifact struct {
	ArtifactID  string         `json:"artifactId"`
	Name        string         `json:"name,omitzero"`
	Description string         `json:"description,omitzero"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Artifact is valid.
func (a *Artifact) Validate() error {
	if a.ArtifactID == "" {
		return fmt.Errorf("artifact ID cannot be empty")
	}
	if err := validateParts(a.Parts); err != nil {
		return fmt.Errorf("artifact %w", err)
	}
	return nil
}

// UnmarshalJSON decodes an artifact, dispatching each part on its kind.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	var raw struct {
		ArtifactID  string         `json:"artifactId"`
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Parts       jsontext.Value `json:"parts"`
		Metadata    map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal artifact: %w", err)
	}

	parts, err := unmarshalParts(raw.Parts)
	if err != nil {
		return fmt.Errorf("artifact parts: %w", err)
	}

	a.ArtifactID = raw.ArtifactID
	a.Name = raw.Name
	a.Description = raw.Description
	a.Parts = parts
	a.Metadata = raw.Metadata
	return nil
}

// NewArtifact creates a new Artifact from a list of parts, a name, and an
// optional description. A unique artifact ID is generated.
func NewArtifact(parts []Part, name, description string) (*Artifact, error) {
	if err := validateParts(parts); err != nil {
		return nil, fmt.Errorf("artifact %w", err)
	}

	return &Artifact{
		ArtifactID:  uuid.NewString(),
		Name:        name,
		Description: description,
		Parts:       parts,
	}, nil
}

// NewTextArtifact creates a new Artifact containing a single TextPart.
func NewTextArtifact(name, text, description string) (*Artifact, error) {
	if text == "" {
		return nil, fmt.Errorf("text content cannot be empty")
	}
	return NewArtifact([]Part{NewTextPart(text)}, name, description)
}

// NewDataArtifact creates a new Artifact containing a single DataPart.
func NewDataArtifact(name string, data any, description string) (*Artifact, error) {
	if data == nil {
		return nil, fmt.Errorf("data content cannot be nil")
	}
	return NewArtifact([]Part{NewDataPart(data)}, name, description)
}
