// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package auth

import "time"

// # Authentication Constraints

const (
	// DefaultSessionTTL is the lifetime of a session created by a plain login.
	DefaultSessionTTL = 24 * time.Hour

	// RememberedSessionTTL is the lifetime of a session created by a login
	// with remember_me, and of the session issued right after registration.
	// Long-lived (30 days) to provide a good user experience.
	RememberedSessionTTL = 30 * 24 * time.Hour

	// SessionTokenLength is the byte length of the random session token.
	SessionTokenLength = 32

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32
)

// # Error Codes

// Machine-readable failure kinds for the authentication surface. Message
// text on the errors below is presentation only; clients branch on these.
const (
	CodeEmailTaken          = "EMAIL_TAKEN"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeAccountDisabled     = "ACCOUNT_DISABLED"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeInvalidOrExpired    = "INVALID_OR_EXPIRED_TOKEN"
	CodeTooManyLoginRetries = "RATE_LIMITED"
)
