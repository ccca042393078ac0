// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package task

import (
	"context"
	"fmt"
	"time"

	"github.com/taskora/taskora/pkg/pagination"
	"github.com/taskora/taskora/pkg/pointer"
	"github.com/taskora/taskora/pkg/slice"
	"github.com/taskora/taskora/pkg/uuidv7"
)

// notEmpty keeps label ID lists free of blank entries from sloppy clients.
func notEmpty(id string) bool { return id != "" }

// Service implements task use cases on top of [Repository].
type Service struct {
	repository Repository
}

// NewService constructs a task [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// CreateInput holds the data for a new task.
type CreateInput struct {
	Title       string
	Description string
	ProjectID   *string
	ParentID    *string
	Priority    *int
	DueAt       *time.Time
	LabelIDs    []string
}

// UpdateInput carries a partial task update. Nil fields stay unchanged;
// LabelIDs, when non-nil, replaces the full label set.
type UpdateInput struct {
	Title       *string
	Description *string
	ProjectID   *string
	Status      *Status
	Priority    *int
	DueAt       *time.Time
	ClearDueAt  bool
	LabelIDs    []string
}

/*
Create persists a new task at the end of its project bucket.

A subtask inherits nothing from its parent beyond placement in the tree;
the parent must exist and belong to the same user.
*/
func (service *Service) Create(context context.Context, userID string, input CreateInput) (*Task, error) {
	if input.ParentID != nil {
		// The scoped lookup doubles as the ownership check.
		if _, err := service.repository.FindByID(context, userID, *input.ParentID); err != nil {
			return nil, err
		}
	}

	position, err := service.repository.NextPosition(context, userID, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("task_service_position_failed: %w", err)
	}

	priority := pointer.Fallback(input.Priority, DefaultPriority)

	now := time.Now()
	created := &Task{
		ID:          uuidv7.New(),
		UserID:      userID,
		ProjectID:   input.ProjectID,
		ParentID:    input.ParentID,
		Title:       input.Title,
		Description: input.Description,
		Status:      StatusTodo,
		Priority:    priority,
		Position:    position,
		DueAt:       input.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.repository.Create(context, created); err != nil {
		return nil, fmt.Errorf("task_service_create_failed: %w", err)
	}

	if labelIDs := slice.Filter(input.LabelIDs, notEmpty); len(labelIDs) > 0 {
		if err := service.repository.SetLabels(context, userID, created.ID, labelIDs); err != nil {
			return nil, fmt.Errorf("task_service_label_assign_failed: %w", err)
		}
	}

	return service.repository.FindByID(context, userID, created.ID)
}

// Get returns a single task with its labels hydrated.
func (service *Service) Get(context context.Context, userID, id string) (*Task, error) {
	return service.repository.FindByID(context, userID, id)
}

// List returns a filtered page of the user's tasks plus pagination metadata.
func (service *Service) List(context context.Context, userID string, filter Filter, page pagination.Params) ([]*Task, pagination.Meta, error) {
	tasks, total, err := service.repository.List(context, userID, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return tasks, pagination.NewMeta(page.Page, page.Limit, total), nil
}

/*
Update applies a partial update.

Status transitions keep CompletedAt honest: entering done stamps it, leaving
done clears it. Re-labelling replaces the full set.
*/
func (service *Service) Update(context context.Context, userID, id string, input UpdateInput) (*Task, error) {
	found, err := service.repository.FindByID(context, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		found.Title = *input.Title
	}
	if input.Description != nil {
		found.Description = *input.Description
	}
	if input.ProjectID != nil {
		found.ProjectID = input.ProjectID
	}
	if input.Priority != nil {
		found.Priority = *input.Priority
	}
	if input.DueAt != nil {
		found.DueAt = input.DueAt
	} else if input.ClearDueAt {
		found.DueAt = nil
	}
	if input.Status != nil && *input.Status != found.Status {
		service.applyStatus(found, *input.Status)
	}
	found.UpdatedAt = time.Now()

	if err := service.repository.Update(context, found); err != nil {
		return nil, fmt.Errorf("task_service_update_failed: %w", err)
	}

	if input.LabelIDs != nil {
		if err := service.repository.SetLabels(context, userID, id, slice.Filter(input.LabelIDs, notEmpty)); err != nil {
			return nil, fmt.Errorf("task_service_label_assign_failed: %w", err)
		}
	}

	return service.repository.FindByID(context, userID, id)
}

// Complete marks a task done. Completing a done task is a no-op.
func (service *Service) Complete(context context.Context, userID, id string) (*Task, error) {
	return service.transition(context, userID, id, StatusDone)
}

// Reopen puts a done task back to todo. Reopening an open task is a no-op.
func (service *Service) Reopen(context context.Context, userID, id string) (*Task, error) {
	return service.transition(context, userID, id, StatusTodo)
}

// Reorder moves a task to the given position within its project bucket.
func (service *Service) Reorder(context context.Context, userID, id string, position int) (*Task, error) {
	found, err := service.repository.FindByID(context, userID, id)
	if err != nil {
		return nil, err
	}

	found.Position = position
	found.UpdatedAt = time.Now()
	if err := service.repository.Update(context, found); err != nil {
		return nil, fmt.Errorf("task_service_reorder_failed: %w", err)
	}
	return found, nil
}

// Delete removes a task and, through the cascade, its entire subtree.
func (service *Service) Delete(context context.Context, userID, id string) error {
	return service.repository.Delete(context, userID, id)
}

func (service *Service) transition(context context.Context, userID, id string, target Status) (*Task, error) {
	found, err := service.repository.FindByID(context, userID, id)
	if err != nil {
		return nil, err
	}

	if found.Status == target {
		return found, nil
	}

	service.applyStatus(found, target)
	found.UpdatedAt = time.Now()
	if err := service.repository.Update(context, found); err != nil {
		return nil, fmt.Errorf("task_service_transition_failed: %w", err)
	}
	return found, nil
}

// applyStatus mutates the status and keeps CompletedAt consistent with it.
func (service *Service) applyStatus(task *Task, target Status) {
	task.Status = target
	if target == StatusDone {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
}
