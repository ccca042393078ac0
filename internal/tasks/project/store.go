// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package project

import "context"

// Repository defines the data access contract for projects. Every lookup is
// scoped by owner; a project belonging to someone else is indistinguishable
// from one that does not exist.
type Repository interface {
	Create(context context.Context, project *Project) error
	FindByID(context context.Context, userID, id string) (*Project, error)
	ListForUser(context context.Context, userID string, includeArchived bool) ([]*Project, error)
	Update(context context.Context, project *Project) error
	Delete(context context.Context, userID, id string) error
}
