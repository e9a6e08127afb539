// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package graph

// Message is one entry in a graph's accumulated message list. The variant set
// is closed: AssistantMessage and ToolMessage are the protocol-visible kinds,
// HumanMessage and SystemMessage exist so a stream can carry them without the
// adapter treating them as foreign.
type Message interface {
	// MessageID returns the stable identifier of the message. IDs are
	// stable across stream snapshots; consumers deduplicate on them.
	MessageID() string

	isMessage()
}

// TextBlockType marks a typed content block carrying text.
const TextBlockType = "text"

// ContentBlock is one element of a block-structured message content list.
// A block with an empty Type is a bare string element, forwarded verbatim.
// Blocks typed TextBlockType carry protocol-visible text when non-empty;
// blocks of any other type pass through the stream untranslated.
type ContentBlock struct {
	Type string
	Text string
}

// StringBlock builds a bare string content element.
func StringBlock(text string) ContentBlock {
	return ContentBlock{Text: text}
}

// TextBlock builds a typed text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: TextBlockType, Text: text}
}

// Content models message content that is either a single plain string or a
// list of blocks. Exactly one of Text and Blocks is meaningful; IsBlocks
// reports which.
type Content struct {
	Text     string
	Blocks   []ContentBlock
	IsBlocks bool
}

// TextContent builds plain string content.
func TextContent(text string) Content {
	return Content{Text: text}
}

// BlockContent builds block-structured content.
func BlockContent(blocks ...ContentBlock) Content {
	return Content{Blocks: blocks, IsBlocks: true}
}

// ToolCall is an assistant's request to invoke a tool.
type ToolCall struct {
	// ID is the call identifier correlating the request with its result.
	ID string

	// Name is the tool name.
	Name string

	// Args is the argument payload, an arbitrary JSON-serializable value.
	Args any
}

// AssistantMessage is a message produced by the graph's model step. It may
// carry text content, tool call requests, or both.
type AssistantMessage struct {
	ID        string
	Content   Content
	ToolCalls []ToolCall
}

// MessageID returns the message identifier.
func (m *AssistantMessage) MessageID() string { return m.ID }

func (m *AssistantMessage) isMessage() {}

// ToolMessage carries the result of a tool execution back into the graph.
type ToolMessage struct {
	ID string

	// Content is the tool's raw output. Tools that return JSON keep it
	// serialized here; consumers decide whether to parse it.
	Content string

	// ToolCallID is the ID of the originating tool call.
	ToolCallID string

	// ToolName is the name of the tool that produced the result.
	ToolName string
}

// MessageID returns the message identifier.
func (m *ToolMessage) MessageID() string { return m.ID }

func (m *ToolMessage) isMessage() {}

// HumanMessage is a user input message echoed through the stream. The
// adapter ignores it.
type HumanMessage struct {
	ID      string
	Content string
}

// MessageID returns the message identifier.
func (m *HumanMessage) MessageID() string { return m.ID }

func (m *HumanMessage) isMessage() {}

// SystemMessage is an instruction message internal to the graph. The adapter
// ignores it.
type SystemMessage struct {
	ID      string
	Content string
}

// MessageID returns the message identifier.
func (m *SystemMessage) MessageID() string { return m.ID }

func (m *SystemMessage) isMessage() {}
