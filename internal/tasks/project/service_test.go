// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package project_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/internal/tasks/project"
	"github.com/taskora/taskora/pkg/pointer"
)

// memRepo is an in-memory [project.Repository].
type memRepo struct {
	projects map[string]*project.Project
}

func newMemRepo() *memRepo {
	return &memRepo{projects: map[string]*project.Project{}}
}

func (repo *memRepo) Create(_ context.Context, created *project.Project) error {
	clone := *created
	repo.projects[created.ID] = &clone
	return nil
}

func (repo *memRepo) FindByID(_ context.Context, userID, id string) (*project.Project, error) {
	found, ok := repo.projects[id]
	if !ok || found.UserID != userID {
		return nil, apperr.NotFound("Project")
	}
	clone := *found
	return &clone, nil
}

func (repo *memRepo) ListForUser(_ context.Context, userID string, includeArchived bool) ([]*project.Project, error) {
	matched := []*project.Project{}
	for _, candidate := range repo.projects {
		if candidate.UserID != userID {
			continue
		}
		if !includeArchived && candidate.IsArchived {
			continue
		}
		clone := *candidate
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (repo *memRepo) Update(_ context.Context, updated *project.Project) error {
	existing, ok := repo.projects[updated.ID]
	if !ok || existing.UserID != updated.UserID {
		return apperr.NotFound("Project")
	}
	clone := *updated
	repo.projects[updated.ID] = &clone
	return nil
}

func (repo *memRepo) Delete(_ context.Context, userID, id string) error {
	existing, ok := repo.projects[id]
	if !ok || existing.UserID != userID {
		return apperr.NotFound("Project")
	}
	delete(repo.projects, id)
	return nil
}

const ownerID = "user-1"

/*
TestCreate_Slugifies verifies that a project gets a URL-safe slug derived
from its name, including diacritics folding.
*/
func TestCreate_Slugifies(t *testing.T) {
	service := project.NewService(newMemRepo())

	created, err := service.Create(context.Background(), ownerID, project.CreateInput{Name: "Môj Veľký Projekt"})
	require.NoError(t, err)

	assert.Equal(t, "moj-velky-projekt", created.Slug)
	assert.False(t, created.IsArchived)
}

/*
TestUpdate_RenameRefreshesSlug verifies that renaming regenerates the slug
while other updates leave it alone.
*/
func TestUpdate_RenameRefreshesSlug(t *testing.T) {
	service := project.NewService(newMemRepo())
	created, err := service.Create(context.Background(), ownerID, project.CreateInput{Name: "Old Name"})
	require.NoError(t, err)

	// 1. Color-only update keeps the slug
	recolored, err := service.Update(context.Background(), ownerID, created.ID, project.UpdateInput{Color: pointer.To("#ff0000")})
	require.NoError(t, err)
	assert.Equal(t, "old-name", recolored.Slug)

	// 2. Rename refreshes it
	renamed, err := service.Update(context.Background(), ownerID, created.ID, project.UpdateInput{Name: pointer.To("New Name")})
	require.NoError(t, err)
	assert.Equal(t, "new-name", renamed.Slug)
}

/*
TestList_ArchiveVisibility verifies that archived projects disappear from
the default listing but return with include_archived.
*/
func TestList_ArchiveVisibility(t *testing.T) {
	service := project.NewService(newMemRepo())
	kept, err := service.Create(context.Background(), ownerID, project.CreateInput{Name: "Active"})
	require.NoError(t, err)
	shelved, err := service.Create(context.Background(), ownerID, project.CreateInput{Name: "Shelved"})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), ownerID, shelved.ID, project.UpdateInput{IsArchived: pointer.To(true)})
	require.NoError(t, err)

	visible, err := service.List(context.Background(), ownerID, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, kept.ID, visible[0].ID)

	all, err := service.List(context.Background(), ownerID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

/*
TestOwnership verifies that foreign projects read as missing.
*/
func TestOwnership(t *testing.T) {
	service := project.NewService(newMemRepo())
	created, err := service.Create(context.Background(), ownerID, project.CreateInput{Name: "Mine"})
	require.NoError(t, err)

	_, err = service.Get(context.Background(), "user-2", created.ID)
	assert.True(t, apperr.IsNotFound(err))

	err = service.Delete(context.Background(), "user-2", created.ID)
	assert.True(t, apperr.IsNotFound(err))
}
