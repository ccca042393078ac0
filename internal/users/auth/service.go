// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/internal/platform/ctxutil"
	"github.com/taskora/taskora/internal/platform/sec"
	"github.com/taskora/taskora/pkg/uuidv7"
)

// # Client-Safe Errors

// Pre-built failures for the authentication surface. Messages are
// presentation text; the attached codes are the client contract.
var (
	ErrEmailTaken         = apperr.Conflict("Email is already registered").WithCode(CodeEmailTaken)
	ErrInvalidCredentials = apperr.Unauthorized("Invalid email or password").WithCode(CodeInvalidCredentials)
	ErrAccountDisabled    = apperr.Forbidden("This account has been deactivated").WithCode(CodeAccountDisabled)
	ErrUnauthenticated    = apperr.Unauthorized("Authentication required").WithCode(CodeUnauthenticated)
	ErrInvalidResetToken  = apperr.Unprocessable("Reset token is invalid or has expired").WithCode(CodeInvalidOrExpired)
	ErrTooManyAttempts    = apperr.RateLimited("Too many failed login attempts, try again later").WithCode(CodeTooManyLoginRetries)
)

// # Service

// Service implements the account and session management use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, session,
// or password reset logic must be reviewed by the security team.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	resetRepository   ResetRepository
	loginThrottle     LoginThrottle
	deliverer         ResetTokenDeliverer
}

// NewService constructs a new auth [Service] with necessary dependencies.
//
// loginThrottle and deliverer are optional: passing nil disables the
// brute-force throttle and reset-token delivery respectively.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	resetRepo ResetRepository,
	throttle LoginThrottle,
	deliverer ResetTokenDeliverer,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		resetRepository:   resetRepo,
		loginThrottle:     throttle,
		deliverer:         deliverer,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email     string
	Name      string
	Password  string
	UserAgent string
	IPAddress string
}

// AuthResult pairs the public user view with the bearer token of the
// session opened for them.
type AuthResult struct {
	User         *PublicUser
	SessionToken string
}

/*
Register validates, hashes, and persists a brand new user account, then
opens a long-lived session so the client lands signed in.

The unique index on email remains the final authority: the pre-check only
produces a friendlier fast path, and a concurrent duplicate insert still
surfaces as ErrEmailTaken.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthResult: Created public user plus session token
  - error: ErrEmailTaken or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthResult, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_email_lookup_failed: %w", err)
	}

	// Prevent storing plain-text passwords. Fixed cost 12 balances security
	// and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := time.Now()
	user := &User{
		ID:           uuidv7.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.userRepository.Insert(context, user); err != nil {
		// A concurrent registration can slip past the pre-check; the unique
		// index reports it here.
		if apperr.IsCode(err, CodeEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Open a remembered session so registration doubles as a login.
	token, err := service.openSession(context, user.ID, input.UserAgent, input.IPAddress, RememberedSessionTTL)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user.Public(), SessionToken: token}, nil
}

// # Login Flow

// LoginInput holds the credentials presented at sign-in.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
	UserAgent  string
	IPAddress  string
}

/*
Login verifies credentials and opens a new session.

Unknown email and wrong password collapse into the same ErrInvalidCredentials
so the endpoint cannot be used to probe which emails are registered. A
deactivated account is reported as ErrAccountDisabled before the password is
even checked; deactivation is an account state, not a credential outcome.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthResult: Public user plus session token
  - error: ErrInvalidCredentials, ErrAccountDisabled, ErrTooManyAttempts,
    or storage errors
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthResult, error) {
	throttleKey := input.Email + "|" + input.IPAddress

	// Throttle checks are best-effort: a counter outage must not lock
	// everyone out.
	if service.loginThrottle != nil {
		throttled, err := service.loginThrottle.IsThrottled(context, throttleKey)
		if err != nil {
			ctxutil.GetLogger(context).Warn("login throttle check failed", "error", err)
		} else if throttled {
			return nil, ErrTooManyAttempts
		}
	}

	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			service.recordLoginFailure(context, throttleKey)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// The disabled state wins over the password outcome: a deactivated
	// account reports ErrAccountDisabled whatever credentials arrive.
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordLoginFailure(context, throttleKey)
		return nil, ErrInvalidCredentials
	}

	if service.loginThrottle != nil {
		if err := service.loginThrottle.Reset(context, throttleKey); err != nil {
			ctxutil.GetLogger(context).Warn("login throttle reset failed", "error", err)
		}
	}

	timeToLive := DefaultSessionTTL
	if input.RememberMe {
		timeToLive = RememberedSessionTTL
	}

	token, err := service.openSession(context, user.ID, input.UserAgent, input.IPAddress, timeToLive)
	if err != nil {
		return nil, err
	}

	// Record the login and sweep this user's expired sessions. Both are
	// best-effort bookkeeping: the session is already open.
	now := time.Now()
	if err := service.userRepository.Patch(context, user.ID, UserPatch{LastLoginAt: &now}); err != nil {
		ctxutil.GetLogger(context).Warn("last login update failed", "user_id", user.ID, "error", err)
	}
	if err := service.sessionRepository.PruneExpiredForUser(context, user.ID, now); err != nil {
		ctxutil.GetLogger(context).Warn("expired session prune failed", "user_id", user.ID, "error", err)
	}

	return &AuthResult{User: user.Public(), SessionToken: token}, nil
}

/*
Logout terminates the session identified by the bearer token.

Idempotent: an unknown, expired, or already-terminated token is not an
error. The client holds no session either way.

Parameters:
  - context: context.Context
  - token: string (raw bearer token)

Returns:
  - error: Storage errors only
*/
func (service *Service) Logout(context context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := service.sessionRepository.DeleteByTokenHash(context, sec.HashToken(token)); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Session Resolution

/*
GetCurrentUser resolves a bearer token to its account.

All dead-token shapes (unknown, expired, orphaned, deactivated owner)
resolve to (nil, nil) rather than an error: the read path reports "nobody
is signed in" without explaining why. Only infrastructure failures surface
as errors.

Parameters:
  - context: context.Context
  - token: string (raw bearer token)

Returns:
  - *User: The session owner, or nil when no live session matches
  - error: Storage errors only
*/
func (service *Service) GetCurrentUser(context context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(token))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth_service_session_lookup_failed: %w", err)
	}

	if session.IsExpiredAt(time.Now()) {
		return nil, nil
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth_service_user_lookup_failed: %w", err)
	}

	if !user.IsActive {
		return nil, nil
	}

	return user, nil
}

/*
ResolveSession adapts GetCurrentUser for the HTTP middleware layer: the
bearer token resolves to a request principal, or nil when nobody is
signed in.

Parameters:
  - context: context.Context
  - token: string (raw bearer token)

Returns:
  - *sec.Principal: Request identity, or nil for any dead token
  - error: Storage errors only
*/
func (service *Service) ResolveSession(context context.Context, token string) (*sec.Principal, error) {
	user, err := service.GetCurrentUser(context, token)
	if err != nil || user == nil {
		return nil, err
	}
	return user.Principal(), nil
}

// # Profile Management

// UpdateProfileInput carries a partial profile update. Nil fields are left
// unchanged; CurrentPassword and NewPassword travel together or not at all.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

/*
UpdateProfile applies a partial update to the authenticated user's account.

Changing the password requires re-proving the current one even though the
caller already holds a valid session. Email changes go through the same
uniqueness authority as registration.

Parameters:
  - context: context.Context
  - token: string (raw bearer token)
  - input: UpdateProfileInput

Returns:
  - *PublicUser: Post-update public view
  - error: ErrUnauthenticated, ErrEmailTaken, ErrInvalidCredentials,
    or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, token string, input UpdateProfileInput) (*PublicUser, error) {

	// Mutations want a hard failure on a dead session, unlike the
	// silent-none read path.
	user, err := service.GetCurrentUser(context, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	patch := UserPatch{Name: input.Name}

	if input.Email != nil && *input.Email != user.Email {
		_, err := service.userRepository.FindByEmail(context, *input.Email)
		if err == nil {
			return nil, ErrEmailTaken
		}
		if !apperr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_email_lookup_failed: %w", err)
		}
		patch.Email = input.Email
	}

	if input.NewPassword != nil {
		if input.CurrentPassword == nil || !sec.CheckPasswordHash(*input.CurrentPassword, user.PasswordHash) {
			return nil, ErrInvalidCredentials
		}
		hashedPassword, err := sec.HashPassword(*input.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
		}
		patch.PasswordHash = &hashedPassword
	}

	if err := service.userRepository.Patch(context, user.ID, patch); err != nil {
		if apperr.IsCode(err, CodeEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("auth_service_profile_update_failed: %w", err)
	}

	updated, err := service.userRepository.FindByID(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_profile_reload_failed: %w", err)
	}
	return updated.Public(), nil
}

// # Password Reset Flow

/*
ForgotPassword issues a password reset request for the given email.

Always reports success: whether the email is registered or not, the caller
sees the same outcome, so the endpoint leaks nothing about the account
directory. Delivery of the token is best-effort and out-of-band.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Storage errors only (unknown email is NOT an error)
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("auth_service_forgot_lookup_failed: %w", err)
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	now := time.Now()
	request := &PasswordResetRequest{
		ID:        uuidv7.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(token),
		Used:      false,
		ExpiresAt: now.Add(ResetTokenTTL),
		CreatedAt: now,
	}
	if err := service.resetRepository.Insert(context, request); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	// The raw token exists only in memory from here on; delivery is its
	// single exit. A delivery failure is logged, not surfaced, to keep the
	// endpoint's response independent of account existence.
	if service.deliverer != nil {
		if err := service.deliverer.DeliverResetToken(context, user.ID, token); err != nil {
			ctxutil.GetLogger(context).Error("reset token delivery failed", "user_id", user.ID, "error", err)
		}
	}

	return nil
}

/*
ValidateResetToken reports whether a reset token is still consumable,
without consuming it. Clients call this before rendering the new-password
form.

Parameters:
  - context: context.Context
  - token: string (raw reset token)

Returns:
  - bool: true when the token is known, unused, and unexpired
  - error: Storage errors only
*/
func (service *Service) ValidateResetToken(context context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	request, err := service.resetRepository.FindByTokenHash(context, sec.HashToken(token))
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}
	return request.IsConsumableAt(time.Now()), nil
}

/*
ResetPassword exchanges a consumable reset token for a password change.

Ordering matters: the password is updated before the token is burned, so a
crash between the two leaves a token that can only repeat the change, never
a consumed token with the old password still active. Every session of the
user is terminated afterwards — whoever requested the reset is the only
holder of the new credentials.

Parameters:
  - context: context.Context
  - token: string (raw reset token)
  - newPassword: string

Returns:
  - error: ErrInvalidResetToken or storage errors
*/
func (service *Service) ResetPassword(context context.Context, token string, newPassword string) error {
	request, err := service.resetRepository.FindByTokenHash(context, sec.HashToken(token))
	if err != nil {
		if apperr.IsNotFound(err) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}
	if !request.IsConsumableAt(time.Now()) {
		return ErrInvalidResetToken
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.Patch(context, request.UserID, UserPatch{PasswordHash: &hashedPassword}); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	if err := service.resetRepository.MarkUsed(context, request.ID); err != nil {
		return fmt.Errorf("auth_service_reset_consume_failed: %w", err)
	}

	// Global session invalidation: the reset proves control of the account's
	// recovery channel, so any previously issued token is presumed stolen.
	if err := service.sessionRepository.DeleteAllForUser(context, request.UserID); err != nil {
		return fmt.Errorf("auth_service_reset_session_purge_failed: %w", err)
	}

	return nil
}

// # Internal Helpers

// openSession mints a fresh random token, stores its hash, and returns the
// raw token. The raw value is never persisted.
func (service *Service) openSession(context context.Context, userID, userAgent, ipAddress string, timeToLive time.Duration) (string, error) {
	token, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_session_token_failed: %w", err)
	}

	now := time.Now()
	session := &Session{
		ID:        uuidv7.New(),
		UserID:    userID,
		TokenHash: sec.HashToken(token),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: now.Add(timeToLive),
		CreatedAt: now,
	}
	if err := service.sessionRepository.Create(context, session); err != nil {
		return "", fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}
	return token, nil
}

// recordLoginFailure bumps the throttle counter, swallowing counter outages.
func (service *Service) recordLoginFailure(context context.Context, key string) {
	if service.loginThrottle == nil {
		return
	}
	if err := service.loginThrottle.RecordFailure(context, key); err != nil {
		ctxutil.GetLogger(context).Warn("login throttle record failed", "error", err)
	}
}
