// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

// Package middleware provides the HTTP middleware chain for the Taskora API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/internal/platform/constants"
	"github.com/taskora/taskora/internal/platform/ctxutil"
	"github.com/taskora/taskora/internal/platform/respond"
	"github.com/taskora/taskora/internal/platform/sec"
)

// SessionResolver resolves an opaque bearer session token into an identity.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the auth
// service implementation, allowing us to easily inject fakes during unit
// testing. The resolver returns (nil, nil) for any token that does not map
// to a live session — missing, unknown, expired, or belonging to an
// inactive account are all observably identical on this path.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*sec.Principal, error)
}

// Authenticate extracts the bearer session token and resolves it to a user.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, resolve the token against the session store.
//  4. Inject [*sec.Principal] into the request context for downstream use.
//
// An unresolvable token also proceeds as anonymous rather than failing the
// request: the read path never discloses why a session is invalid. Handlers
// that require identity mount [RequireAuth] behind this middleware.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.AuthorizationHeader)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Session Resolution ─────────────────────────────────────────
			token := parts[1]
			principal, err := resolver.ResolveSession(request.Context(), token)
			if err != nil {
				// Store outage, not an invalid token. Surface it.
				respond.Error(writer, request, err)
				return
			}
			if principal == nil {
				// Dead token: continue anonymously, same as no header at all.
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Principal] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required").WithCode("UNAUTHENTICATED"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.Principal] exists in context (implies AuthN).
//  2. Check if the user's role meets or exceeds the target via [sec.UserRole.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required").WithCode("UNAUTHENTICATED"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !principal.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
