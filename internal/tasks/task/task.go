// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

/*
Package task implements the task management core: hierarchical to-do items
with status, priority, manual ordering, due dates, and label assignments.

# Model

A task belongs to one user and optionally to one project. A task may have a
parent task, which makes it a subtask; deleting a parent removes its whole
subtree through the schema's cascade. Labels attach many-to-many.
*/
package task

import (
	"time"

	"github.com/taskora/taskora/internal/tasks/label"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether the status is one of the known lifecycle states.
func (status Status) Valid() bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority bounds. 1 is the most urgent, matching the P1..P4 convention.
const (
	PriorityHighest = 1
	PriorityLowest  = 4
	DefaultPriority = PriorityLowest
)

// Task is a single to-do item.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	ProjectID   *string    `json:"project_id,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    int        `json:"priority"`
	Position    int        `json:"position"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Labels carries the attached labels when the query hydrates them.
	Labels []*label.Label `json:"labels,omitempty"`
}

// Field identifiers for validation and payloads.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldProjectID   = "project_id"
	FieldParentID    = "parent_id"
	FieldLabelIDs    = "label_ids"
	FieldPosition    = "position"
	FieldDueAt       = "due_at"
	FieldID          = "id"
)
