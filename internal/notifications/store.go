// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package notifications

import (
	"context"

	"github.com/taskora/taskora/pkg/pagination"
)

// Repository defines owner-scoped data access for notifications.
type Repository interface {
	Create(context context.Context, notification *Notification) error
	ListForUser(context context.Context, userID string, unreadOnly bool, page pagination.Params) ([]*Notification, int, error)
	MarkRead(context context.Context, userID, id string) error
	MarkAllRead(context context.Context, userID string) error
	CountUnread(context context.Context, userID string) (int, error)
}
