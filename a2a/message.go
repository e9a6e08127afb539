// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

// Message represents a message exchanged between a user and an agent.
type Message struct {
	Role      Role           `json:"role"`
	Parts     []Part         `json:"parts"`
	MessageID string         `json:"messageId"`
	TaskID    string         `json:"taskId,omitzero"`
	ContextID string         `json:"contextId,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// EventKind returns the protocol kind discriminator for messages.
func (m *Message) EventKind() string {
	return MessageEventKind
}

// Validate ensures the Message is valid.
func (m *Message) Validate() error {
	if m.Role != RoleAgent && m.Role != RoleUser {
		return fmt.Errorf("invalid message role: %q", m.Role)
	}
	if m.MessageID == "" {
		return fmt.Errorf("message ID cannot be empty")
	}
	if err := validateParts(m.Parts); err != nil {
		return fmt.Errorf("message %w", err)
	}
	return nil
}

// UnmarshalJSON decodes a message, dispatching each part on its kind.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role      Role           `json:"role"`
		Parts     jsontext.Value `json:"parts"`
		MessageID string         `json:"messageId"`
		TaskID    string         `json:"taskId"`
		ContextID string         `json:"contextId"`
		Metadata  map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	parts, err := unmarshalParts(raw.Parts)
	if err != nil {
		return fmt.Errorf("message parts: %w", err)
	}

	m.Role = raw.Role
	m.Parts = parts
	m.MessageID = raw.MessageID
	m.TaskID = raw.TaskID
	m.ContextID = raw.ContextID
	m.Metadata = raw.Metadata
	return nil
}

// NewUserTextMessage creates a new user message containing a single TextPart.
func NewUserTextMessage(text, contextID, taskID string) *Message {
	return &Message{
		Role:      RoleUser,
		Parts:     []Part{NewTextPart(text)},
		MessageID: uuid.NewString(),
		TaskID:    taskID,
		ContextID: contextID,
	}
}

// NewAgentTextMessage creates a new agent message containing a single TextPart.
//
// Args:
//
//	text: The text content of the message.
//	contextID: The context ID for the message (may be empty).
//	taskID: The task ID for the message (may be empty).
//
// Returns:
//
//	A new Message with role 'agent' and a generated message ID.
func NewAgentTextMessage(text, contextID, taskID string) *Message {
	return &Message{
		Role:      RoleAgent,
		Parts:     []Part{NewTextPart(text)},
		MessageID: uuid.NewString(),
		TaskID:    taskID,
		ContextID: contextID,
	}
}

// NewAgentPartsMessage creates a new agent message from a list of parts.
func NewAgentPartsMessage(parts []Part, contextID, taskID string) (*Message, error) {
	if err := validateParts(parts); err != nil {
		return nil, fmt.Errorf("agent message %w", err)
	}

	return &Message{
		Role:      RoleAgent,
		Parts:     parts,
		MessageID: uuid.NewString(),
		TaskID:    taskID,
		ContextID: contextID,
	}, nil
}

// GetTextParts extracts the text content from every TextPart in parts.
func GetTextParts(parts []Part) []string {
	var texts []string
	for _, part := range parts {
		if tp, ok := part.(*TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return texts
}

// GetMessageText extracts and joins all text content from a message's parts
// using the given delimiter. It returns an empty string if the message has no
// text parts.
func GetMessageText(message *Message, delimiter string) string {
	if message == nil {
		return ""
	}
	return strings.Join(GetTextParts(message.Parts), delimiter)
}
