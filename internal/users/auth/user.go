// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session, PasswordResetRequest) and
logic for authentication, authorization, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/taskora/taskora/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Taskora platform.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name,omitempty"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"is_active"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// PublicUser is the client-facing projection of a [User].
//
// It is the only user shape that crosses the API boundary; the password hash
// and operational fields never leave the service layer.
type PublicUser struct {
	ID    string       `json:"id"`
	Email string       `json:"email"`
	Name  string       `json:"name,omitempty"`
	Role  sec.UserRole `json:"role"`
}

// Public returns the client-safe projection of the user.
func (user *User) Public() *PublicUser {
	return &PublicUser{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
}

// Principal returns the request-scoped identity view of the user.
func (user *User) Principal() *sec.Principal {
	return &sec.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}
}

// Session represents an active bearer-token session.
//
// A session is valid iff the current time is strictly before ExpiresAt.
// Expiry is a derived read-time state: expired rows stay in storage until
// they are swept opportunistically (post-login prune) or removed by the
// reset-password cascade.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the bearer token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpiredAt reports whether the session is past its expiry at the given instant.
func (session *Session) IsExpiredAt(now time.Time) bool {
	return !now.Before(session.ExpiresAt)
}

// PasswordResetRequest represents a single-use, time-boxed reset credential.
//
// Consumed requests are never deleted: the used flag flips to true and the
// row stays behind as an audit record.
type PasswordResetRequest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	Used      bool      `json:"used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsConsumableAt reports whether the request can still be exchanged for a
// password change at the given instant: not yet used and not yet expired.
func (request *PasswordResetRequest) IsConsumableAt(now time.Time) bool {
	return !request.Used && now.Before(request.ExpiresAt)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldName            = "name"
	FieldPassword        = "password"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldRememberMe      = "remember_me"
	FieldUser            = "user"
	FieldMessage         = "message"
	FieldSessionToken    = "session_token"
	FieldValid           = "valid"
)
