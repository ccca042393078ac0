// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

// Package notifications stores and serves in-app notifications, and doubles
// as the delivery channel for password reset tokens.
package notifications

import "time"

// Kind classifies a notification for client-side rendering.
type Kind string

const (
	KindSystem        Kind = "system"
	KindPasswordReset Kind = "password_reset"
	KindTaskReminder  Kind = "task_reminder"
)

// Notification is a single message addressed to one user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
