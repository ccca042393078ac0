// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

// Package project manages task projects: the named buckets a user sorts
// their tasks into. Every project is owned by exactly one user; archiving
// hides a project from default listings without touching its tasks.
package project

import "time"

// Project is a user-owned container for tasks.
type Project struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Color      string    `json:"color,omitempty"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Field identifiers for validation and payloads.
const (
	FieldName  = "name"
	FieldColor = "color"
	FieldID    = "id"
)
