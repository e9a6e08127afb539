// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Part kind discriminators.
const (
	TextPartKind = "text"
	DataPartKind = "data"
)

// Part represents a part of a message or artifact's content.
type Part interface {
	// PartKind returns the kind discriminator of the part.
	PartKind() string

	// Validate ensures the part is well formed.
	Validate() error
}

// TextPart represents a plain text segment within a message or artifact.
type TextPart struct {
	Kind     string         `json:"kind"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewTextPart creates a TextPart containing the given text.
func NewTextPart(text string) *TextPart {
	return &TextPart{
		Kind: TextPartKind,
		Text: text,
	}
}

// PartKind returns the part kind.
func (tp *TextPart) PartKind() string {
	return TextPartKind
}

// Validate ensures the TextPart is valid.
func (tp *TextPart) Validate() error {
	if tp.Kind != TextPartKind {
		return fmt.Errorf("text part kind must be %q, got %q", TextPartKind, tp.Kind)
	}
	if tp.Text == "" {
		return fmt.Errorf("text part text cannot be empty")
	}
	return nil
}

// DataPart represents a structured data segment within a message or artifact.
// Data holds any JSON-serializable value.
type DataPart struct {
	Kind     string         `json:"kind"`
	Data     any            `json:"data"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewDataPart creates a DataPart carrying the given value.
func NewDataPart(data any) *DataPart {
	return &DataPart{
		Kind: DataPartKind,
		Data: data,
	}
}

// PartKind returns the part kind.
func (dp *DataPart) PartKind() string {
	return DataPartKind
}

// Validate ensures the DataPart is valid.
func (dp *DataPart) Validate() error {
	if dp.Kind != DataPartKind {
		return fmt.Errorf("data part kind must be %q, got %q", DataPartKind, dp.Kind)
	}
	if dp.Data == nil {
		return fmt.Errorf("data part data cannot be nil")
	}
	return nil
}

// UnmarshalPart decodes a single JSON-encoded part, dispatching on its kind
// discriminator.
func UnmarshalPart(data []byte) (Part, error) {
	var kind struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &kind); err != nil {
		return nil, fmt.Errorf("failed to unmarshal part kind: %w", err)
	}

	switch kind.Kind {
	case TextPartKind:
		var tp TextPart
		if err := json.Unmarshal(data, &tp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal text part: %w", err)
		}
		return &tp, nil
	case DataPartKind:
		var dp DataPart
		if err := json.Unmarshal(data, &dp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal data part: %w", err)
		}
		return &dp, nil
	default:
		return nil, fmt.Errorf("unknown part kind: %q", kind.Kind)
	}
}

// unmarshalParts decodes a JSON array of parts.
func unmarshalParts(data []byte) ([]Part, error) {
	var raws []jsontext.Value
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parts: %w", err)
	}

	parts := make([]Part, len(raws))
	for i, raw := range raws {
		part, err := UnmarshalPart(raw)
		if err != nil {
			return nil, fmt.Errorf("part at index %d: %w", i, err)
		}
		parts[i] = part
	}
	return parts, nil
}

// validateParts validates a slice of parts, rejecting nil entries.
func validateParts(parts []Part) error {
	if len(parts) == 0 {
		return fmt.Errorf("must contain at least one part")
	}
	for i, part := range parts {
		if part == nil {
			return fmt.Errorf("part at index %d cannot be nil", i)
		}
		if err := part.Validate(); err != nil {
			return fmt.Errorf("part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}
