// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package notifications_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora/internal/notifications"
	"github.com/taskora/taskora/pkg/pagination"
)

// memRepo is an in-memory [notifications.Repository].
type memRepo struct {
	items map[string]*notifications.Notification
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*notifications.Notification{}}
}

func (repo *memRepo) Create(_ context.Context, notification *notifications.Notification) error {
	clone := *notification
	repo.items[notification.ID] = &clone
	return nil
}

func (repo *memRepo) ListForUser(_ context.Context, userID string, unreadOnly bool, page pagination.Params) ([]*notifications.Notification, int, error) {
	matched := []*notifications.Notification{}
	for _, candidate := range repo.items {
		if candidate.UserID != userID {
			continue
		}
		if unreadOnly && candidate.IsRead {
			continue
		}
		clone := *candidate
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

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

func (repo *memRepo) MarkRead(_ context.Context, userID, id string) error {
	if found, ok := repo.items[id]; ok && found.UserID == userID {
		found.IsRead = true
	}
	return nil
}

func (repo *memRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, candidate := range repo.items {
		if candidate.UserID == userID {
			candidate.IsRead = true
		}
	}
	return nil
}

func (repo *memRepo) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, candidate := range repo.items {
		if candidate.UserID == userID && !candidate.IsRead {
			count++
		}
	}
	return count, nil
}

/*
TestDeliverResetToken verifies that token delivery lands as an unread
password-reset notification carrying the raw token.
*/
func TestDeliverResetToken(t *testing.T) {
	repo := newMemRepo()
	service := notifications.NewService(repo)

	require.NoError(t, service.DeliverResetToken(context.Background(), "user-1", "raw-token-value"))

	listed, meta, err := service.List(context.Background(), "user-1", true, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Total)
	require.Len(t, listed, 1)
	assert.Equal(t, notifications.KindPasswordReset, listed[0].Kind)
	assert.Contains(t, listed[0].Body, "raw-token-value")
	assert.False(t, listed[0].IsRead)
}

/*
TestReadLifecycle verifies unread counting and the two read-marking paths.
*/
func TestReadLifecycle(t *testing.T) {
	repo := newMemRepo()
	service := notifications.NewService(repo)

	first, err := service.Notify(context.Background(), "user-1", notifications.KindSystem, "one", "")
	require.NoError(t, err)
	_, err = service.Notify(context.Background(), "user-1", notifications.KindSystem, "two", "")
	require.NoError(t, err)
	_, err = service.Notify(context.Background(), "user-2", notifications.KindSystem, "other user", "")
	require.NoError(t, err)

	// 1. Unread count is per user
	count, err := service.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// 2. Single mark-read
	require.NoError(t, service.MarkRead(context.Background(), "user-1", first.ID))
	count, err = service.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 3. Mark-all drains the badge without touching other users
	require.NoError(t, service.MarkAllRead(context.Background(), "user-1"))
	count, err = service.CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = service.CountUnread(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
