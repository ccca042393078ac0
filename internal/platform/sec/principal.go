// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

// Package sec provides cryptographic primitives and identity types.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, token
// generation) from the domain logic, and defines the [Principal] carried
// through request contexts after session resolution.
package sec

// Principal is the resolved identity of an authenticated request.
//
// # Why a dedicated type?
//
// Middleware resolves the opaque bearer token into a Principal exactly once
// per request. Handlers downstream read the Principal from context instead
// of re-querying the session store, and no handler ever sees the raw token
// beyond the transport layer.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   UserRole
}
