// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora/internal/platform/apperr"
)

/*
TestConstructors checks that every client-facing constructor carries its
message through unchanged and maps to the right HTTP status and code.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperr.AppError
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not_found", apperr.NotFound("Task"), http.StatusNotFound, "NOT_FOUND", "Task not found"},
		{"unauthorized", apperr.Unauthorized("Sign in first"), http.StatusUnauthorized, "UNAUTHORIZED", "Sign in first"},
		{"forbidden", apperr.Forbidden("No access"), http.StatusForbidden, "FORBIDDEN", "No access"},
		{"conflict", apperr.Conflict("Already exists"), http.StatusConflict, "CONFLICT", "Already exists"},
		{"rate_limited", apperr.RateLimited("Slow down"), http.StatusTooManyRequests, "RATE_LIMITED", "Slow down"},
		{"unprocessable", apperr.Unprocessable("Token expired"), http.StatusUnprocessableEntity, "UNPROCESSABLE", "Token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

/*
TestWithCode checks that refining the code clones the error: package-level
sentinels built from a constructor must stay immutable, and errors.Is must
keep matching the refined sentinel by identity.
*/
func TestWithCode(t *testing.T) {
	base := apperr.RateLimited("Too many attempts")
	refined := base.WithCode("LOGIN_THROTTLED")

	assert.Equal(t, "RATE_LIMITED", base.Code)
	assert.Equal(t, "LOGIN_THROTTLED", refined.Code)
	assert.Equal(t, base.Error(), refined.Error())
	assert.Equal(t, base.HTTPStatus, refined.HTTPStatus)

	assert.True(t, errors.Is(refined, refined))
	assert.True(t, apperr.IsCode(refined, "LOGIN_THROTTLED"))
	assert.False(t, apperr.IsCode(base, "LOGIN_THROTTLED"))
}

/*
TestHelpers checks the chain-walking helpers against fmt-wrapped errors,
the shape repositories hand back to services.
*/
func TestHelpers(t *testing.T) {
	wrapped := fmt.Errorf("session_lookup_failed: %w", apperr.NotFound("Session"))

	require.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.False(t, apperr.IsNotFound(errors.New("plain")))
	assert.Nil(t, apperr.As(errors.New("plain")))
}
