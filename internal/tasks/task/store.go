// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package task

import (
	"context"
	"time"

	"github.com/taskora/taskora/pkg/pagination"
)

// Filter narrows a task listing. Zero values mean "no constraint".
type Filter struct {
	ProjectID *string
	ParentID  *string
	Status    *Status
	// LabelIDs matches tasks carrying ANY of the given labels.
	LabelIDs  []string
	DueBefore *time.Time
	// RootsOnly limits the listing to tasks without a parent.
	RootsOnly bool
	// Search matches a case-insensitive substring of the title.
	Search string
}

// Repository defines owner-scoped data access for tasks.
//
// List hydrates labels for the returned page; single-task reads hydrate them
// too. Writes to the label assignment go through SetLabels, which replaces
// the full set atomically.
type Repository interface {
	Create(context context.Context, task *Task) error
	FindByID(context context.Context, userID, id string) (*Task, error)
	List(context context.Context, userID string, filter Filter, page pagination.Params) ([]*Task, int, error)
	Update(context context.Context, task *Task) error
	Delete(context context.Context, userID, id string) error

	// NextPosition returns 1 + the highest position among the user's tasks
	// in the same project bucket, so new tasks land at the end.
	NextPosition(context context.Context, userID string, projectID *string) (int, error)

	// SetLabels replaces the task's label assignments with the given set.
	// Label ownership is enforced by the join insert's subquery.
	SetLabels(context context.Context, userID, taskID string, labelIDs []string) error
}
