// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/taskora/taskora/pkg/pagination"
	"github.com/taskora/taskora/pkg/uuidv7"
)

// Service implements notification use cases.
type Service struct {
	repository Repository
}

// NewService constructs a notification [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Notify stores a new notification for the user.
func (service *Service) Notify(context context.Context, userID string, kind Kind, title, body string) (*Notification, error) {
	created := &Notification{
		ID:        uuidv7.New(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := service.repository.Create(context, created); err != nil {
		return nil, fmt.Errorf("notification_service_create_failed: %w", err)
	}
	return created, nil
}

// List returns a page of the user's notifications, newest first.
func (service *Service) List(context context.Context, userID string, unreadOnly bool, page pagination.Params) ([]*Notification, pagination.Meta, error) {
	items, total, err := service.repository.ListForUser(context, userID, unreadOnly, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, pagination.NewMeta(page.Page, page.Limit, total), nil
}

// MarkRead flags a single notification as read.
func (service *Service) MarkRead(context context.Context, userID, id string) error {
	return service.repository.MarkRead(context, userID, id)
}

// MarkAllRead flags every notification of the user as read.
func (service *Service) MarkAllRead(context context.Context, userID string) error {
	return service.repository.MarkAllRead(context, userID)
}

// CountUnread returns the badge count.
func (service *Service) CountUnread(context context.Context, userID string) (int, error) {
	return service.repository.CountUnread(context, userID)
}

/*
DeliverResetToken implements the auth layer's delivery contract by storing
the reset token as an in-app notification.

The raw token lands in the notification body; the auth tables only ever see
its hash. A production deployment would fan this out to email as well.
*/
func (service *Service) DeliverResetToken(context context.Context, userID string, token string) error {
	_, err := service.Notify(context, userID, KindPasswordReset,
		"Password reset requested",
		fmt.Sprintf("Use this token within the next hour to reset your password: %s", token),
	)
	return err
}
