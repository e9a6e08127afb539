// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/go-a2a/a2a-graph/a2a"
)

// DatabaseStore is a database implementation of Store using GORM. Tasks are
// stored as rows with JSON columns for status, history, and artifacts.
type DatabaseStore struct {
	db *gorm.DB
}

var _ Store = (*DatabaseStore)(nil)

// DatabaseStoreConfig holds configuration for DatabaseStore.
type DatabaseStoreConfig struct {
	// DB is the GORM database handle. Required.
	DB *gorm.DB

	// Migrate controls whether the tasks table is auto-migrated on
	// construction.
	Migrate bool
}

// NewDatabaseStore creates a new DatabaseStore.
func NewDatabaseStore(config DatabaseStoreConfig) (*DatabaseStore, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}

	if config.Migrate {
		if err := config.DB.AutoMigrate(&TaskModel{}); err != nil {
			return nil, fmt.Errorf("failed to migrate tasks table: %w", err)
		}
	}

	return &DatabaseStore{db: config.DB}, nil
}

// Save persists a task to the database, creating or updating it.
func (s *DatabaseStore) Save(ctx context.Context, task *a2a.Task) error {
	model, err := NewTaskModel(task)
	if err != nil {
		return StoreError{Op: "save", TaskID: taskIDOf(task), Err: err}
	}

	if err := s.db.WithContext(ctx).Save(model).Error; err != nil {
		return StoreError{Op: "save", TaskID: task.ID, Err: err}
	}
	return nil
}

// Get retrieves a task by its ID from the database.
func (s *DatabaseStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	var model TaskModel
	if err := s.db.WithContext(ctx).Where("id = ?", taskID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{TaskID: taskID}
		}
		return nil, StoreError{Op: "get", TaskID: taskID, Err: err}
	}

	return model.ToTask(), nil
}

// Delete removes a task from the database. Deleting an absent task is a
// no-op.
func (s *DatabaseStore) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	if err := s.db.WithContext(ctx).Where("id = ?", taskID).Delete(&TaskModel{}).Error; err != nil {
		return StoreError{Op: "delete", TaskID: taskID, Err: err}
	}
	return nil
}

func taskIDOf(task *a2a.Task) string {
	if task == nil {
		return ""
	}
	return task.ID
}
