// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package project

import (
	"context"
	"fmt"
	"time"

	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/pkg/slug"
	"github.com/taskora/taskora/pkg/uuidv7"
)

// Service implements project use cases on top of [Repository].
type Service struct {
	repository Repository
}

// NewService constructs a project [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// CreateInput holds the data for a new project.
type CreateInput struct {
	Name  string
	Color string
}

// UpdateInput carries a partial project update. Nil fields stay unchanged.
type UpdateInput struct {
	Name       *string
	Color      *string
	IsArchived *bool
}

// Create persists a new project for the user. The slug derives from the
// name and is regenerated on every rename.
func (service *Service) Create(context context.Context, userID string, input CreateInput) (*Project, error) {
	now := time.Now()
	project := &Project{
		ID:        uuidv7.New(),
		UserID:    userID,
		Name:      input.Name,
		Slug:      slug.From(input.Name),
		Color:     input.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repository.Create(context, project); err != nil {
		return nil, fmt.Errorf("project_service_create_failed: %w", err)
	}
	return project, nil
}

// Get returns a single project owned by the user.
func (service *Service) Get(context context.Context, userID, id string) (*Project, error) {
	return service.repository.FindByID(context, userID, id)
}

// List returns the user's projects, newest first. Archived projects are
// hidden unless requested.
func (service *Service) List(context context.Context, userID string, includeArchived bool) ([]*Project, error) {
	return service.repository.ListForUser(context, userID, includeArchived)
}

// Update applies a partial update. A rename refreshes the slug.
func (service *Service) Update(context context.Context, userID, id string, input UpdateInput) (*Project, error) {
	project, err := service.repository.FindByID(context, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != project.Name {
		project.Name = *input.Name
		project.Slug = slug.From(*input.Name)
	}
	if input.Color != nil {
		project.Color = *input.Color
	}
	if input.IsArchived != nil {
		project.IsArchived = *input.IsArchived
	}
	project.UpdatedAt = time.Now()

	if err := service.repository.Update(context, project); err != nil {
		return nil, fmt.Errorf("project_service_update_failed: %w", err)
	}
	return project, nil
}

// Delete removes a project and, through the schema's cascade, every task in
// it. The ownership check rides on the scoped delete: zero rows means the
// project was never the caller's to delete.
func (service *Service) Delete(context context.Context, userID, id string) error {
	if err := service.repository.Delete(context, userID, id); err != nil {
		if apperr.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("project_service_delete_failed: %w", err)
	}
	return nil
}
