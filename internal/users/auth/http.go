// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskora/taskora/internal/platform/middleware"
	requestutil "github.com/taskora/taskora/internal/platform/request"
	"github.com/taskora/taskora/internal/platform/respond"
	"github.com/taskora/taskora/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (registration, login,
// session introspection, profile updates, password recovery). It is strictly
// responsible for transport concerns (status codes, headers, JSON).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST  /register             : Creates an account and opens a session.
//   - POST  /login                : Authenticates and returns a session token.
//   - POST  /logout               : Terminates the presented session (idempotent).
//   - GET   /me                   : Resolves the presented session, silently anonymous.
//   - PATCH /me                   : Partial profile update (requires auth).
//   - POST  /forgot-password      : Issues a reset token (always succeeds).
//   - POST  /validate-reset-token : Checks a reset token without consuming it.
//   - POST  /reset-password       : Consumes a reset token to set a new password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints. Logout and me stay public on purpose: logout is
	// idempotent for dead tokens and me answers "nobody" instead of 401.
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/validate-reset-token", handler.validateResetToken)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Patch("/me", handler.updateProfile)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type updateProfileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetTokenRequest struct {
	Token string `json:"token"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// # Session Lifecycle Endpoints

/*
register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, enrolls the account, and opens a remembered
session so the client lands signed in.

Request:
  - Body: registerRequest (Email, Password, Name)

Response:
  - 201: {user, session_token}
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: EMAIL_TAKEN: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		MaxLen(FieldName, input.Name, 120)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Name:      input.Name,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: requestutil.ClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldUser:         result.User,
		FieldSessionToken: result.SessionToken,
	})
}

/*
login authenticates a user and opens a session.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Email, Password, RememberMe)

Response:
  - 200: {user, session_token}
  - 401: INVALID_CREDENTIALS: Unknown email or wrong password
  - 403: ACCOUNT_DISABLED: Correct credentials, deactivated account
  - 429: RATE_LIMITED: Too many recent failures
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:      input.Email,
		Password:   input.Password,
		RememberMe: input.RememberMe,
		UserAgent:  request.UserAgent(),
		IPAddress:  requestutil.ClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldUser:         result.User,
		FieldSessionToken: result.SessionToken,
	})
}

/*
logout terminates the presented session.

POST /api/v1/auth/logout

Description: Idempotent; an absent, unknown, or expired token still yields
success because the client holds no session either way.

Response:
  - 204: Session terminated (or was never alive)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.BearerToken(request)

	if err := handler.authService.Logout(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
me resolves the presented session to its account.

GET /api/v1/auth/me

Description: Dead tokens (absent, unknown, expired, deactivated owner) are
answered with a null user rather than 401, so clients can probe their own
sign-in state without error handling.

Response:
  - 200: {user} — user is null when nobody is signed in
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.BearerToken(request)

	user, err := handler.authService.GetCurrentUser(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if user == nil {
		respond.OK(writer, map[string]any{FieldUser: nil})
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user.Public()})
}

// # Profile Endpoints

/*
updateProfile applies a partial update to the signed-in user's account.

PATCH /api/v1/auth/me

Request:
  - Body: updateProfileRequest (all fields optional; CurrentPassword is
    required when NewPassword is present)

Response:
  - 200: {user}: Post-update public view
  - 401: UNAUTHENTICATED / INVALID_CREDENTIALS
  - 409: EMAIL_TAKEN: New email already registered
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	var input updateProfileRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Email != nil {
		validator.Required(FieldEmail, *input.Email).Email(FieldEmail, *input.Email)
	}
	if input.Name != nil {
		validator.MaxLen(FieldName, *input.Name, 120)
	}
	if input.NewPassword != nil {
		validator.MinLen(FieldNewPassword, *input.NewPassword, 8)
		if input.CurrentPassword == nil {
			validator.Custom(FieldCurrentPassword, true, "current_password is required to change the password")
		}
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.UpdateProfile(request.Context(), requestutil.BearerToken(request), UpdateProfileInput{
		Name:            input.Name,
		Email:           input.Email,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user})
}

// # Password Recovery Endpoints

/*
forgotPassword issues a password reset token for the given email.

POST /api/v1/auth/forgot-password

Description: Always answers with the same message, registered email or not,
so the endpoint cannot be used to enumerate accounts.

Response:
  - 200: {message}
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "If that email is registered, reset instructions have been sent.",
	})
}

/*
validateResetToken checks a reset token without consuming it.

POST /api/v1/auth/validate-reset-token

Response:
  - 200: {valid}: false for unknown, used, or expired tokens
*/
func (handler *Handler) validateResetToken(writer http.ResponseWriter, request *http.Request) {
	var input resetTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	valid, err := handler.authService.ValidateResetToken(request.Context(), input.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldValid: valid})
}

/*
resetPassword consumes a reset token and sets a new password.

POST /api/v1/auth/reset-password

Description: On success every session of the account is terminated; the
user signs in again with the new password.

Response:
  - 200: {message}
  - 422: INVALID_OR_EXPIRED_TOKEN
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Password has been reset. Please sign in again.",
	})
}
