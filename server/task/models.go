// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/go-a2a/a2a-graph/a2a"
)

// StatusColumn stores a TaskStatus as a JSON database column.
type StatusColumn struct {
	a2a.TaskStatus
}

// Value implements the driver.Valuer interface for database storage.
func (c StatusColumn) Value() (driver.Value, error) {
	return json.Marshal(c.TaskStatus)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (c *StatusColumn) Scan(value any) error {
	bytes, err := columnBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*c = StatusColumn{}
		return nil
	}

	var status a2a.TaskStatus
	if err := json.Unmarshal(bytes, &status); err != nil {
		return fmt.Errorf("cannot unmarshal task status column: %w", err)
	}
	c.TaskStatus = status
	return nil
}

// MessagesColumn stores a message slice as a JSON database column.
type MessagesColumn struct {
	Messages []*a2a.Message
}

// Value implements the driver.Valuer interface for database storage.
func (c MessagesColumn) Value() (driver.Value, error) {
	if c.Messages == nil {
		return nil, nil
	}
	return json.Marshal(c.Messages)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (c *MessagesColumn) Scan(value any) error {
	bytes, err := columnBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*c = MessagesColumn{}
		return nil
	}

	var messages []*a2a.Message
	if err := json.Unmarshal(bytes, &messages); err != nil {
		return fmt.Errorf("cannot unmarshal messages column: %w", err)
	}
	c.Messages = messages
	return nil
}

// ArtifactsColumn stores an artifact slice as a JSON database column.
type ArtifactsColumn struct {
	Artifacts []*a2a.Artifact
}

// Value implements the driver.Valuer interface for database storage.
func (c ArtifactsColumn) Value() (driver.Value, error) {
	if c.Artifacts == nil {
		return nil, nil
	}
	return json.Marshal(c.Artifacts)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (c *ArtifactsColumn) Scan(value any) error {
	bytes, err := columnBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*c = ArtifactsColumn{}
		return nil
	}

	var artifacts []*a2a.Artifact
	if err := json.Unmarshal(bytes, &artifacts); err != nil {
		return fmt.Errorf("cannot unmarshal artifacts column: %w", err)
	}
	c.Artifacts = artifacts
	return nil
}

// MetadataColumn stores an open key-value map as a JSON database column.
type MetadataColumn struct {
	Metadata map[string]any
}

// Value implements the driver.Valuer interface for database storage.
func (c MetadataColumn) Value() (driver.Value, error) {
	if c.Metadata == nil {
		return nil, nil
	}
	return json.Marshal(c.Metadata)
}

// Scan implements the sql.Scanner interface for database retrieval.
func (c *MetadataColumn) Scan(value any) error {
	bytes, err := columnBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*c = MetadataColumn{}
		return nil
	}

	var metadata map[string]any
	if err := json.Unmarshal(bytes, &metadata); err != nil {
		return fmt.Errorf("cannot unmarshal metadata column: %w", err)
	}
	c.Metadata = metadata
	return nil
}

// columnBytes normalizes a scanned database value to raw JSON bytes.
func columnBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("cannot scan %T as JSON column", value)
	}
}

// TaskModel is the GORM database model for persisted tasks.
type TaskModel struct {
	ID        string          `gorm:"primaryKey;column:id"`
	ContextID string          `gorm:"column:context_id;index"`
	Status    StatusColumn    `gorm:"column:status;type:json"`
	History   MessagesColumn  `gorm:"column:history;type:json"`
	Artifacts ArtifactsColumn `gorm:"column:artifacts;type:json"`
	Metadata  MetadataColumn  `gorm:"column:metadata;type:json"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

// TableName returns the database table name for tasks.
func (TaskModel) TableName() string {
	return "tasks"
}

// NewTaskModel converts a protocol task to its database model.
func NewTaskModel(task *a2a.Task) (*TaskModel, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	return &TaskModel{
		ID:        task.ID,
		ContextID: task.ContextID,
		Status:    StatusColumn{TaskStatus: task.Status},
		History:   MessagesColumn{Messages: task.History},
		Artifacts: ArtifactsColumn{Artifacts: task.Artifacts},
		Metadata:  MetadataColumn{Metadata: task.Metadata},
	}, nil
}

// ToTask converts the database model back to a protocol task.
func (m *TaskModel) ToTask() *a2a.Task {
	return &a2a.Task{
		ID:        m.ID,
		ContextID: m.ContextID,
		Status:    m.Status.TaskStatus,
		History:   m.History.Messages,
		Artifacts: m.Artifacts.Artifacts,
		Metadata:  m.Metadata.Metadata,
	}
}
