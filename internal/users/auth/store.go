// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserPatch carries a partial update for a user account.
//
// Nil fields are left untouched; a non-nil field is written as given.
// This makes the "unchanged vs. set" distinction explicit at the type level
// instead of relying on sentinel zero values.
type UserPatch struct {
	Email        *string
	Name         *string
	PasswordHash *string
	IsActive     *bool
	LastLoginAt  *time.Time
}

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		The lookup is case-sensitive: emails are stored exactly as registered.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Insert persists a brand-new user account to the storage.

		The unique index on email is the authority for uniqueness; a
		violation surfaces as ErrEmailTaken regardless of any pre-check
		the caller performed.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: ErrEmailTaken or persistence failures
	*/
	Insert(context context.Context, user *User) error

	/*
		Patch applies a partial update to the account, refreshing updatedat.

		Parameters:
		  - context: context.Context
		  - id: string
		  - patch: UserPatch (nil fields untouched)

		Returns:
		  - error: apperr.NotFound if the id is absent, ErrEmailTaken on a
		    unique-index conflict, or persistence failures
	*/
	Patch(context context.Context, id string, patch UserPatch) error
}

// # Session Data Access

// SessionRepository defines the data access contract for bearer-token sessions.
//
// Lookups perform NO implicit expiry filtering: an expired row is returned
// as-is and the caller decides what expiry means. Cleanup of expired rows is
// strictly opportunistic (post-login prune, reset-password cascade).
type SessionRepository interface {

	/*
		Create persists a new session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the session matching the given token hash,
		expired or not.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		DeleteByTokenHash removes the session matching the token hash.
		Deleting an unknown hash is a no-op, not an error.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteByTokenHash(context context.Context, tokenHash string) error

	/*
		DeleteAllForUser removes every session belonging to the userID,
		valid and expired alike.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteAllForUser(context context.Context, userID string) error

	/*
		PruneExpiredForUser removes only the expired sessions of a user.
		Invoked opportunistically after login; never on a schedule.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - now: time.Time (expiry cutoff)

		Returns:
		  - error: Persistence failures
	*/
	PruneExpiredForUser(context context.Context, userID string, now time.Time) error
}

// # Password Reset Data Access

// ResetRepository defines the persistence contract for password reset requests.
//
// Requests are append-then-flag: rows are inserted by issuance, flipped to
// used on consumption, and never deleted (audit retention).
type ResetRepository interface {

	/*
		Insert persists a freshly issued reset request.

		Parameters:
		  - context: context.Context
		  - request: *PasswordResetRequest

		Returns:
		  - error: Persistence failures
	*/
	Insert(context context.Context, request *PasswordResetRequest) error

	/*
		FindByTokenHash returns the reset request matching the token hash,
		regardless of its used flag or expiry.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *PasswordResetRequest: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*PasswordResetRequest, error)

	/*
		MarkUsed flips the used flag on a reset request. The row survives
		for auditing; it just becomes permanently inert.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	MarkUsed(context context.Context, id string) error
}

// # Abuse Protection

// LoginThrottle tracks failed credential checks per client.
//
// All methods are best-effort: an unavailable backing store must degrade to
// "not throttled" rather than block logins.
type LoginThrottle interface {

	/*
		RecordFailure increments the failed-login counter for the key.

		Parameters:
		  - context: context.Context
		  - key: string (email+IP pair)

		Returns:
		  - error: Counter store failures (callers ignore)
	*/
	RecordFailure(context context.Context, key string) error

	/*
		IsThrottled reports whether the key has exceeded the failure budget.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - bool: true if further attempts should be rejected
		  - error: Counter store failures (callers treat as not throttled)
	*/
	IsThrottled(context context.Context, key string) (bool, error)

	/*
		Reset clears the counter after a successful login.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: Counter store failures (callers ignore)
	*/
	Reset(context context.Context, key string) error
}

// # Delivery Collaborator

// ResetTokenDeliverer hands a freshly issued reset token to the user through
// an out-of-band channel (in-app notification, email, SMS).
//
// The auth core only needs this single capability; how the token reaches the
// user is a collaborator concern.
type ResetTokenDeliverer interface {
	DeliverResetToken(context context.Context, userID string, token string) error
}
