// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/internal/platform/constants"
	"github.com/taskora/taskora/internal/platform/sec"
	"github.com/taskora/taskora/internal/users/auth"
)

// # In-Memory Fakes

type memUserRepo struct {
	users map[string]*auth.User // keyed by ID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*auth.User{}}
}

func (repo *memUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *user
	return &clone, nil
}

func (repo *memUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (repo *memUserRepo) Insert(_ context.Context, user *auth.User) error {
	for _, existing := range repo.users {
		if existing.Email == user.Email {
			return auth.ErrEmailTaken
		}
	}
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *memUserRepo) Patch(_ context.Context, id string, patch auth.UserPatch) error {
	user, ok := repo.users[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	if patch.Email != nil {
		for otherID, other := range repo.users {
			if otherID != id && other.Email == *patch.Email {
				return auth.ErrEmailTaken
			}
		}
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.LastLoginAt != nil {
		user.LastLoginAt = patch.LastLoginAt
	}
	user.UpdatedAt = time.Now()
	return nil
}

type memSessionRepo struct {
	sessions map[string]*auth.Session // keyed by token hash
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*auth.Session{}}
}

func (repo *memSessionRepo) Create(_ context.Context, session *auth.Session) error {
	clone := *session
	repo.sessions[session.TokenHash] = &clone
	return nil
}

func (repo *memSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	session, ok := repo.sessions[tokenHash]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	clone := *session
	return &clone, nil
}

func (repo *memSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	delete(repo.sessions, tokenHash)
	return nil
}

func (repo *memSessionRepo) DeleteAllForUser(_ context.Context, userID string) error {
	for hash, session := range repo.sessions {
		if session.UserID == userID {
			delete(repo.sessions, hash)
		}
	}
	return nil
}

func (repo *memSessionRepo) PruneExpiredForUser(_ context.Context, userID string, now time.Time) error {
	for hash, session := range repo.sessions {
		if session.UserID == userID && !now.Before(session.ExpiresAt) {
			delete(repo.sessions, hash)
		}
	}
	return nil
}

// expireAll pushes every stored session past its expiry.
func (repo *memSessionRepo) expireAll() {
	for _, session := range repo.sessions {
		session.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

type memResetRepo struct {
	requests map[string]*auth.PasswordResetRequest // keyed by token hash
}

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{requests: map[string]*auth.PasswordResetRequest{}}
}

func (repo *memResetRepo) Insert(_ context.Context, request *auth.PasswordResetRequest) error {
	clone := *request
	repo.requests[request.TokenHash] = &clone
	return nil
}

func (repo *memResetRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.PasswordResetRequest, error) {
	request, ok := repo.requests[tokenHash]
	if !ok {
		return nil, apperr.NotFound("Password reset request")
	}
	clone := *request
	return &clone, nil
}

func (repo *memResetRepo) MarkUsed(_ context.Context, id string) error {
	for _, request := range repo.requests {
		if request.ID == id {
			request.Used = true
		}
	}
	return nil
}

// expireAll pushes every stored reset request past its expiry.
func (repo *memResetRepo) expireAll() {
	for _, request := range repo.requests {
		request.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

type memThrottle struct {
	failures map[string]int
}

func newMemThrottle() *memThrottle {
	return &memThrottle{failures: map[string]int{}}
}

func (throttle *memThrottle) RecordFailure(_ context.Context, key string) error {
	throttle.failures[key]++
	return nil
}

func (throttle *memThrottle) IsThrottled(_ context.Context, key string) (bool, error) {
	return throttle.failures[key] >= constants.LoginThrottleMaxFailures, nil
}

func (throttle *memThrottle) Reset(_ context.Context, key string) error {
	delete(throttle.failures, key)
	return nil
}

// memDeliverer captures delivered reset tokens instead of sending them.
type memDeliverer struct {
	deliveries []delivery
}

type delivery struct {
	userID string
	token  string
}

func (deliverer *memDeliverer) DeliverResetToken(_ context.Context, userID string, token string) error {
	deliverer.deliveries = append(deliverer.deliveries, delivery{userID: userID, token: token})
	return nil
}

// # Test Fixture

type fixture struct {
	service   *auth.Service
	users     *memUserRepo
	sessions  *memSessionRepo
	resets    *memResetRepo
	throttle  *memThrottle
	deliverer *memDeliverer
}

func newFixture() *fixture {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	resets := newMemResetRepo()
	throttle := newMemThrottle()
	deliverer := &memDeliverer{}

	return &fixture{
		service:   auth.NewService(users, sessions, resets, throttle, deliverer),
		users:     users,
		sessions:  sessions,
		resets:    resets,
		throttle:  throttle,
		deliverer: deliverer,
	}
}

func (f *fixture) register(t *testing.T, email, password string) *auth.AuthResult {
	t.Helper()
	result, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Name:     "Test User",
		Password: password,
	})
	require.NoError(t, err)
	return result
}

// # Registration

/*
TestRegister_CreatesAccountAndSession verifies that registration persists the
account, opens a live session, and never exposes the password hash.
*/
func TestRegister_CreatesAccountAndSession(t *testing.T) {
	f := newFixture()

	result, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    "anna@example.com",
		Name:     "Anna",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// 1. Public view carries identity but no secrets
	assert.Equal(t, "anna@example.com", result.User.Email)
	assert.Equal(t, "Anna", result.User.Name)
	assert.Equal(t, sec.RoleUser, result.User.Role)
	assert.NotEmpty(t, result.User.ID)

	// 2. The session token resolves back to the account
	user, err := f.service.GetCurrentUser(context.Background(), result.SessionToken)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, result.User.ID, user.ID)

	// 3. The stored credential is a hash, not the plaintext
	stored := f.users.users[result.User.ID]
	assert.NotEqual(t, "correct horse battery", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct horse battery", stored.PasswordHash))
}

/*
TestRegister_DuplicateEmail verifies that a second registration with the same
email fails with the EMAIL_TAKEN contract error.
*/
func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	f.register(t, "anna@example.com", "password-one")

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    "anna@example.com",
		Name:     "Impostor",
		Password: "password-two",
	})

	assert.ErrorIs(t, err, auth.ErrEmailTaken)
	assert.True(t, apperr.IsCode(err, auth.CodeEmailTaken))
}

// # Login

/*
TestLogin_Succeeds verifies the happy path: correct credentials open a new
session and record the login time.
*/
func TestLogin_Succeeds(t *testing.T) {
	f := newFixture()
	registered := f.register(t, "anna@example.com", "secret-password")

	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "anna@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	// 1. Fresh token, distinct from the registration session
	assert.NotEmpty(t, result.SessionToken)
	assert.NotEqual(t, registered.SessionToken, result.SessionToken)

	// 2. Login timestamp recorded
	stored := f.users.users[result.User.ID]
	require.NotNil(t, stored.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *stored.LastLoginAt, time.Minute)
}

/*
TestLogin_CredentialFailuresAreIndistinguishable verifies that an unknown
email and a wrong password produce the identical error, so the endpoint
cannot be used to probe which emails are registered.
*/
func TestLogin_CredentialFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture()
	f.register(t, "anna@example.com", "secret-password")

	_, unknownErr := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "nobody@example.com",
		Password: "secret-password",
	})
	_, wrongErr := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "anna@example.com",
		Password: "not-the-password",
	})

	assert.ErrorIs(t, unknownErr, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, auth.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

/*
TestLogin_DisabledAccount verifies that a deactivated account is reported as
disabled before the password is even considered: the account state wins over
the credential outcome for both a correct and a wrong password.
*/
func TestLogin_DisabledAccount(t *testing.T) {
	f := newFixture()
	registered := f.register(t, "anna@example.com", "secret-password")

	disabled := false
	require.NoError(t, f.users.Patch(context.Background(), registered.User.ID, auth.UserPatch{IsActive: &disabled}))

	cases := []struct {
		name     string
		password string
	}{
		{name: "correct password", password: "secret-password"},
		{name: "wrong password", password: "not-the-password"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := f.service.Login(context.Background(), auth.LoginInput{
				Email:    "anna@example.com",
				Password: testCase.password,
			})
			assert.ErrorIs(t, err, auth.ErrAccountDisabled)
		})
	}
}

/*
TestLogin_SessionDurations verifies the remember-me split: a plain login
gets a day, a remembered one gets thirty.
*/
func TestLogin_SessionDurations(t *testing.T) {
	f := newFixture()
	f.register(t, "anna@example.com", "secret-password")

	cases := []struct {
		name       string
		rememberMe bool
		wantTTL    time.Duration
	}{
		{name: "plain login", rememberMe: false, wantTTL: auth.DefaultSessionTTL},
		{name: "remembered login", rememberMe: true, wantTTL: auth.RememberedSessionTTL},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			result, err := f.service.Login(context.Background(), auth.LoginInput{
				Email:      "anna@example.com",
				Password:   "secret-password",
				RememberMe: testCase.rememberMe,
			})
			require.NoError(t, err)

			session, err := f.sessions.FindByTokenHash(context.Background(), sec.HashToken(result.SessionToken))
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(testCase.wantTTL), session.ExpiresAt, time.Minute)
		})
	}
}

/*
TestLogin_Throttled verifies that repeated credential failures trip the
brute-force throttle and that a successful login clears it.
*/
func TestLogin_Throttled(t *testing.T) {
	f := newFixture()
	f.register(t, "anna@example.com", "secret-password")

	// 1. Burn through the failure budget
	for i := 0; i < constants.LoginThrottleMaxFailures; i++ {
		_, err := f.service.Login(context.Background(), auth.LoginInput{
			Email:    "anna@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	// 2. Even the correct password is now rejected
	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "anna@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, auth.ErrTooManyAttempts)

	// 3. Clearing the counter restores access
	require.NoError(t, f.throttle.Reset(context.Background(), "anna@example.com|"))
	_, err = f.service.Login(context.Background(), auth.LoginInput{
		Email:    "anna@example.com",
		Password: "secret-password",
	})
	assert.NoError(t, err)
}

// # Session Resolution

/*
TestGetCurrentUser_DeadTokens verifies that every dead-token shape resolves
to (nil, nil) rather than an error: the read path never explains why nobody
is signed in.
*/
func TestGetCurrentUser_DeadTokens(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		f := newFixture()
		user, err := f.service.GetCurrentUser(context.Background(), "")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture()
		user, err := f.service.GetCurrentUser(context.Background(), "garbage-token")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("expired session", func(t *testing.T) {
		f := newFixture()
		result := f.register(t, "anna@example.com", "secret-password")
		f.sessions.expireAll()

		user, err := f.service.GetCurrentUser(context.Background(), result.SessionToken)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("deactivated owner", func(t *testing.T) {
		f := newFixture()
		result := f.register(t, "anna@example.com", "secret-password")
		disabled := false
		require.NoError(t, f.users.Patch(context.Background(), result.User.ID, auth.UserPatch{IsActive: &disabled}))

		user, err := f.service.GetCurrentUser(context.Background(), result.SessionToken)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

/*
TestLogout_Idempotent verifies that logout kills the session and that
repeating it (or logging out a never-issued token) stays successful.
*/
func TestLogout_Idempotent(t *testing.T) {
	f := newFixture()
	result := f.register(t, "anna@example.com", "secret-password")

	// 1. First logout terminates the session
	require.NoError(t, f.service.Logout(context.Background(), result.SessionToken))
	user, err := f.service.GetCurrentUser(context.Background(), result.SessionToken)
	require.NoError(t, err)
	assert.Nil(t, user)

	// 2. Repeating it is still a success
	assert.NoError(t, f.service.Logout(context.Background(), result.SessionToken))

	// 3. So is a token that never existed
	assert.NoError(t, f.service.Logout(context.Background(), "never-issued"))
}

// # Profile Updates

/*
TestUpdateProfile_PartialFields verifies that only the provided fields
change and everything else survives untouched.
*/
func TestUpdateProfile_PartialFields(t *testing.T) {
	f := newFixture()
	result := f.register(t, "anna@example.com", "secret-password")

	newName := "Anna Kováčová"
	updated, err := f.service.UpdateProfile(context.Background(), result.SessionToken, auth.UpdateProfileInput{
		Name: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, "Anna Kováčová", updated.Name)
	assert.Equal(t, "anna@example.com", updated.Email)
}

/*
TestUpdateProfile_EmailConflict verifies that changing to an email someone
else registered fails with EMAIL_TAKEN.
*/
func TestUpdateProfile_EmailConflict(t *testing.T) {
	f := newFixture()
	f.register(t, "taken@example.com", "other-password")
	result := f.register(t, "anna@example.com", "secret-password")

	takenEmail := "taken@example.com"
	_, err := f.service.UpdateProfile(context.Background(), result.SessionToken, auth.UpdateProfileInput{
		Email: &takenEmail,
	})

	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

/*
TestUpdateProfile_PasswordChange verifies that a password change demands the
current password even with a valid session, and that the new password takes
effect.
*/
func TestUpdateProfile_PasswordChange(t *testing.T) {
	f := newFixture()
	result := f.register(t, "anna@example.com", "old-password")

	// 1. Wrong current password is rejected
	wrongCurrent := "not-the-password"
	newPassword := "new-password-123"
	_, err := f.service.UpdateProfile(context.Background(), result.SessionToken, auth.UpdateProfileInput{
		CurrentPassword: &wrongCurrent,
		NewPassword:     &newPassword,
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// 2. Correct current password flips the credential
	currentPassword := "old-password"
	_, err = f.service.UpdateProfile(context.Background(), result.SessionToken, auth.UpdateProfileInput{
		CurrentPassword: &currentPassword,
		NewPassword:     &newPassword,
	})
	require.NoError(t, err)

	// 3. Old password no longer works, new one does
	_, err = f.service.Login(context.Background(), auth.LoginInput{Email: "anna@example.com", Password: "old-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = f.service.Login(context.Background(), auth.LoginInput{Email: "anna@example.com", Password: "new-password-123"})
	assert.NoError(t, err)
}

/*
TestUpdateProfile_DeadSession verifies that mutations reject a dead token
with UNAUTHENTICATED instead of the read path's silent nil.
*/
func TestUpdateProfile_DeadSession(t *testing.T) {
	f := newFixture()
	name := "Ghost"

	_, err := f.service.UpdateProfile(context.Background(), "dead-token", auth.UpdateProfileInput{
		Name: &name,
	})

	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

// # Password Recovery

/*
TestForgotPassword_UnknownEmailIsSilent verifies the anti-enumeration
contract: an unregistered email succeeds, stores nothing, delivers nothing.
*/
func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture()

	err := f.service.ForgotPassword(context.Background(), "nobody@example.com")

	assert.NoError(t, err)
	assert.Empty(t, f.resets.requests)
	assert.Empty(t, f.deliverer.deliveries)
}

/*
TestForgotPassword_IssuesAndDeliversToken verifies that a registered email
gets a consumable token handed to the deliverer, with only its hash stored.
*/
func TestForgotPassword_IssuesAndDeliversToken(t *testing.T) {
	f := newFixture()
	result := f.register(t, "anna@example.com", "secret-password")

	require.NoError(t, f.service.ForgotPassword(context.Background(), "anna@example.com"))

	// 1. Delivered to the right account
	require.Len(t, f.deliverer.deliveries, 1)
	delivered := f.deliverer.deliveries[0]
	assert.Equal(t, result.User.ID, delivered.userID)
	assert.NotEmpty(t, delivered.token)

	// 2. Stored under its hash, not the raw token
	_, rawStored := f.resets.requests[delivered.token]
	assert.False(t, rawStored)
	stored, ok := f.resets.requests[sec.HashToken(delivered.token)]
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(auth.ResetTokenTTL), stored.ExpiresAt, time.Minute)

	// 3. And it validates as consumable
	valid, err := f.service.ValidateResetToken(context.Background(), delivered.token)
	require.NoError(t, err)
	assert.True(t, valid)
}

/*
TestValidateResetToken_DeadShapes verifies that unknown, expired, and
consumed tokens all validate to false without error, and that validation
itself never consumes the token.
*/
func TestValidateResetToken_DeadShapes(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		f := newFixture()
		valid, err := f.service.ValidateResetToken(context.Background(), "garbage")
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newFixture()
		f.register(t, "anna@example.com", "secret-password")
		require.NoError(t, f.service.ForgotPassword(context.Background(), "anna@example.com"))
		f.resets.expireAll()

		valid, err := f.service.ValidateResetToken(context.Background(), f.deliverer.deliveries[0].token)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("validation does not consume", func(t *testing.T) {
		f := newFixture()
		f.register(t, "anna@example.com", "secret-password")
		require.NoError(t, f.service.ForgotPassword(context.Background(), "anna@example.com"))
		token := f.deliverer.deliveries[0].token

		for i := 0; i < 3; i++ {
			valid, err := f.service.ValidateResetToken(context.Background(), token)
			require.NoError(t, err)
			assert.True(t, valid)
		}
	})
}

/*
TestResetPassword_FullFlow verifies the consuming path: the password flips,
the token burns, every session dies, and the audit row survives.
*/
func TestResetPassword_FullFlow(t *testing.T) {
	f := newFixture()
	result := f.register(t, "anna@example.com", "old-password")

	// A second device signs in, so two sessions are alive when the reset hits.
	secondDevice, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "anna@example.com",
		Password: "old-password",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.ForgotPassword(context.Background(), "anna@example.com"))
	token := f.deliverer.deliveries[0].token

	require.NoError(t, f.service.ResetPassword(context.Background(), token, "brand-new-password"))

	// 1. New password works, old one is gone
	_, err = f.service.Login(context.Background(), auth.LoginInput{Email: "anna@example.com", Password: "old-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	loggedIn, err := f.service.Login(context.Background(), auth.LoginInput{Email: "anna@example.com", Password: "brand-new-password"})
	require.NoError(t, err)

	// 2. Every pre-reset session was terminated, not just the first one
	user, err := f.service.GetCurrentUser(context.Background(), result.SessionToken)
	require.NoError(t, err)
	assert.Nil(t, user)
	user, err = f.service.GetCurrentUser(context.Background(), secondDevice.SessionToken)
	require.NoError(t, err)
	assert.Nil(t, user)

	// 3. The post-reset login session is alive
	user, err = f.service.GetCurrentUser(context.Background(), loggedIn.SessionToken)
	require.NoError(t, err)
	assert.NotNil(t, user)

	// 4. The token is single-use
	err = f.service.ResetPassword(context.Background(), token, "another-password")
	assert.ErrorIs(t, err, auth.ErrInvalidResetToken)

	// 5. The consumed request is retained for auditing
	stored, ok := f.resets.requests[sec.HashToken(token)]
	require.True(t, ok)
	assert.True(t, stored.Used)
}

/*
TestResetPassword_RejectsDeadTokens verifies that unknown and expired
tokens are refused with the INVALID_OR_EXPIRED_TOKEN contract error.
*/
func TestResetPassword_RejectsDeadTokens(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		f := newFixture()
		err := f.service.ResetPassword(context.Background(), "garbage", "new-password-1")
		assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newFixture()
		f.register(t, "anna@example.com", "secret-password")
		require.NoError(t, f.service.ForgotPassword(context.Background(), "anna@example.com"))
		f.resets.expireAll()

		err := f.service.ResetPassword(context.Background(), f.deliverer.deliveries[0].token, "new-password-1")
		assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
	})
}
