// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package task_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/internal/tasks/task"
	"github.com/taskora/taskora/pkg/pagination"
	"github.com/taskora/taskora/pkg/pointer"
)

// memRepo is an in-memory [task.Repository].
type memRepo struct {
	tasks  map[string]*task.Task
	labels map[string][]string // task ID -> label IDs
}

func newMemRepo() *memRepo {
	return &memRepo{tasks: map[string]*task.Task{}, labels: map[string][]string{}}
}

func (repo *memRepo) Create(_ context.Context, created *task.Task) error {
	clone := *created
	repo.tasks[created.ID] = &clone
	return nil
}

func (repo *memRepo) FindByID(_ context.Context, userID, id string) (*task.Task, error) {
	found, ok := repo.tasks[id]
	if !ok || found.UserID != userID {
		return nil, apperr.NotFound("Task")
	}
	clone := *found
	return &clone, nil
}

func (repo *memRepo) List(_ context.Context, userID string, filter task.Filter, page pagination.Params) ([]*task.Task, int, error) {
	matched := []*task.Task{}
	for _, candidate := range repo.tasks {
		if candidate.UserID != userID {
			continue
		}
		if filter.ProjectID != nil && (candidate.ProjectID == nil || *candidate.ProjectID != *filter.ProjectID) {
			continue
		}
		if filter.Status != nil && candidate.Status != *filter.Status {
			continue
		}
		if filter.RootsOnly && candidate.ParentID != nil {
			continue
		}
		if filter.ParentID != nil && (candidate.ParentID == nil || *candidate.ParentID != *filter.ParentID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(candidate.Title), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *candidate
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Position < matched[j].Position })

	total := len(matched)
	offset := page.Offset()
	if offset > total {
		offset = total
	}
	end := offset + page.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repo *memRepo) Update(_ context.Context, updated *task.Task) error {
	existing, ok := repo.tasks[updated.ID]
	if !ok || existing.UserID != updated.UserID {
		return apperr.NotFound("Task")
	}
	clone := *updated
	repo.tasks[updated.ID] = &clone
	return nil
}

func (repo *memRepo) Delete(_ context.Context, userID, id string) error {
	existing, ok := repo.tasks[id]
	if !ok || existing.UserID != userID {
		return apperr.NotFound("Task")
	}
	delete(repo.tasks, id)
	// Cascade, as the schema's foreign key would.
	for childID, child := range repo.tasks {
		if child.ParentID != nil && *child.ParentID == id {
			delete(repo.tasks, childID)
		}
	}
	return nil
}

func (repo *memRepo) NextPosition(_ context.Context, userID string, projectID *string) (int, error) {
	highest := 0
	for _, candidate := range repo.tasks {
		if candidate.UserID != userID {
			continue
		}
		sameBucket := (candidate.ProjectID == nil && projectID == nil) ||
			(candidate.ProjectID != nil && projectID != nil && *candidate.ProjectID == *projectID)
		if sameBucket && candidate.Position > highest {
			highest = candidate.Position
		}
	}
	return highest + 1, nil
}

func (repo *memRepo) SetLabels(_ context.Context, _, taskID string, labelIDs []string) error {
	repo.labels[taskID] = labelIDs
	return nil
}

const ownerID = "user-1"

func newService() (*task.Service, *memRepo) {
	repo := newMemRepo()
	return task.NewService(repo), repo
}

/*
TestCreate_PositionsAppend verifies that new tasks land at the end of their
project bucket and that buckets count positions independently.
*/
func TestCreate_PositionsAppend(t *testing.T) {
	service, _ := newService()
	projectID := "project-1"

	first, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "first", ProjectID: &projectID})
	require.NoError(t, err)
	second, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "second", ProjectID: &projectID})
	require.NoError(t, err)
	inboxed, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "inbox task"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	// The no-project bucket starts its own sequence.
	assert.Equal(t, 1, inboxed.Position)
	assert.Equal(t, task.StatusTodo, first.Status)
	assert.Equal(t, task.DefaultPriority, first.Priority)
}

/*
TestCreate_SubtaskRequiresOwnedParent verifies that a subtask can only hang
off a parent the caller owns.
*/
func TestCreate_SubtaskRequiresOwnedParent(t *testing.T) {
	service, repo := newService()

	parent, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "parent"})
	require.NoError(t, err)

	// 1. Own parent works
	child, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "child", ParentID: &parent.ID})
	require.NoError(t, err)
	assert.Equal(t, parent.ID, *child.ParentID)

	// 2. Someone else's task as parent is a NotFound
	strangerTask := &task.Task{ID: "stranger-task", UserID: "user-2", Title: "not yours"}
	require.NoError(t, repo.Create(context.Background(), strangerTask))
	_, err = service.Create(context.Background(), ownerID, task.CreateInput{Title: "orphan", ParentID: &strangerTask.ID})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestCompleteAndReopen verifies the status transitions keep CompletedAt in
step and stay idempotent.
*/
func TestCompleteAndReopen(t *testing.T) {
	service, _ := newService()
	created, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "finish the report"})
	require.NoError(t, err)

	// 1. Complete stamps CompletedAt
	done, err := service.Complete(context.Background(), ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.WithinDuration(t, time.Now(), *done.CompletedAt, time.Minute)

	// 2. Completing again is a no-op
	doneAgain, err := service.Complete(context.Background(), ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, done.CompletedAt, doneAgain.CompletedAt)

	// 3. Reopen clears the stamp
	reopened, err := service.Reopen(context.Background(), ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusTodo, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
}

/*
TestUpdate_PartialAndStatus verifies partial updates: untouched fields
survive and a status change through Update also maintains CompletedAt.
*/
func TestUpdate_PartialAndStatus(t *testing.T) {
	service, _ := newService()
	created, err := service.Create(context.Background(), ownerID, task.CreateInput{
		Title:       "draft slides",
		Description: "for the quarterly review",
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), ownerID, created.ID, task.UpdateInput{
		Title:  pointer.To("final slides"),
		Status: pointer.To(task.StatusDone),
	})
	require.NoError(t, err)

	assert.Equal(t, "final slides", updated.Title)
	assert.Equal(t, "for the quarterly review", updated.Description)
	assert.Equal(t, task.StatusDone, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
}

/*
TestList_FiltersAndPagination verifies status filtering and page slicing.
*/
func TestList_FiltersAndPagination(t *testing.T) {
	service, _ := newService()

	for i := 0; i < 5; i++ {
		_, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "task"})
		require.NoError(t, err)
	}
	flagged, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "special delivery"})
	require.NoError(t, err)
	_, err = service.Complete(context.Background(), ownerID, flagged.ID)
	require.NoError(t, err)

	// 1. Status filter
	done, meta, err := service.List(context.Background(), ownerID, task.Filter{Status: pointer.To(task.StatusDone)}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Total)
	require.Len(t, done, 1)
	assert.Equal(t, flagged.ID, done[0].ID)

	// 2. Title search
	found, _, err := service.List(context.Background(), ownerID, task.Filter{Search: "SPECIAL"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, found, 1)

	// 3. Pagination slices and reports the full total
	page, meta, err := service.List(context.Background(), ownerID, task.Filter{}, pagination.Params{Page: 2, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, 6, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	assert.Len(t, page, 2)
}

/*
TestDelete_CascadesSubtasks verifies that deleting a parent takes its
subtasks with it, mirroring the schema's cascade.
*/
func TestDelete_CascadesSubtasks(t *testing.T) {
	service, _ := newService()
	parent, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "parent"})
	require.NoError(t, err)
	child, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "child", ParentID: &parent.ID})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), ownerID, parent.ID))

	_, err = service.Get(context.Background(), ownerID, child.ID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestOwnership verifies that another user's task is indistinguishable from a
missing one on every operation.
*/
func TestOwnership(t *testing.T) {
	service, _ := newService()
	created, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "mine"})
	require.NoError(t, err)

	_, err = service.Get(context.Background(), "user-2", created.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.Complete(context.Background(), "user-2", created.ID)
	assert.True(t, apperr.IsNotFound(err))

	err = service.Delete(context.Background(), "user-2", created.ID)
	assert.True(t, apperr.IsNotFound(err))
}
