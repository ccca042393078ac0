// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora/internal/platform/ctxutil"
	"github.com/taskora/taskora/internal/platform/sec"
)

/*
TestContext_RequestID verifies round-tripping the correlation ID.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()

	// Empty context returns empty string
	assert.Equal(t, "", ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies logger injection and the default fallback.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()

	// Without injection, the default logger is returned (never nil)
	require.NotNil(t, ctxutil.GetLogger(ctx))

	logger := slog.Default().With(slog.String("test", "true"))
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Principal verifies that the resolved identity can be stored in context.
*/
func TestContext_Principal(t *testing.T) {
	ctx := context.Background()

	// Anonymous context yields nil
	assert.Nil(t, ctxutil.GetPrincipal(ctx))

	principal := &sec.Principal{
		UserID: "0192e6a0-0000-7000-8000-000000000001",
		Email:  "dev@taskora.app",
		Role:   sec.RoleUser,
	}

	ctx = ctxutil.WithPrincipal(ctx, principal)
	got := ctxutil.GetPrincipal(ctx)

	require.NotNil(t, got)
	assert.Equal(t, principal.UserID, got.UserID)
	assert.Equal(t, sec.RoleUser, got.Role)
}
