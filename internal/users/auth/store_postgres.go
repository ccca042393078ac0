// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/internal/platform/database/schema"
	"github.com/taskora/taskora/internal/platform/dberr"
)

// # Repository Implementations

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new Postgres implementation for user accounts.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// PostgresSessionRepository implements [SessionRepository] using pgx.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new Postgres implementation for sessions.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// PostgresResetRepository implements [ResetRepository] using pgx.
type PostgresResetRepository struct {
	pool *pgxpool.Pool
}

// NewResetRepository creates a new Postgres implementation for reset requests.
func NewResetRepository(pool *pgxpool.Pool) *PostgresResetRepository {
	return &PostgresResetRepository{pool: pool}
}

// # UserRepository Methods

/*
FindByID retrieves a user record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Name,
		schema.UserAccount.PasswordHash, schema.UserAccount.Role, schema.UserAccount.IsActive,
		schema.UserAccount.LastLoginAt, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table, schema.UserAccount.ID,
	)

	return repository.scanUser(repository.pool.QueryRow(context, query, id), "find_by_id")
}

/*
FindByEmail retrieves a user record by its exact email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Name,
		schema.UserAccount.PasswordHash, schema.UserAccount.Role, schema.UserAccount.IsActive,
		schema.UserAccount.LastLoginAt, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table, schema.UserAccount.Email,
	)

	return repository.scanUser(repository.pool.QueryRow(context, query, email), "find_by_email")
}

/*
Insert persists a new account row. A unique-index conflict on email maps to
ErrEmailTaken so the service layer never parses SQLSTATEs.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: ErrEmailTaken or insert failures
*/
func (repository *PostgresUserRepository) Insert(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Name,
		schema.UserAccount.PasswordHash, schema.UserAccount.Role, schema.UserAccount.IsActive,
		schema.UserAccount.LastLoginAt, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.LastLoginAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("postgres_user_repo_insert_failed: %w", err)
	}

	return nil
}

/*
Patch applies a partial update using COALESCE: nil arguments arrive as SQL
NULL and leave the column untouched, non-nil arguments overwrite it. The
updatedat timestamp always refreshes.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - patch: UserPatch

Returns:
  - error: apperr.NotFound when the id is absent, ErrEmailTaken on a
    unique-index conflict, or update failures
*/
func (repository *PostgresUserRepository) Patch(context context.Context, id string, patch UserPatch) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
		    %s = COALESCE($3, %s),
		    %s = COALESCE($4, %s),
		    %s = COALESCE($5, %s),
		    %s = COALESCE($6, %s),
		    %s = $7
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Email,
		schema.UserAccount.Name, schema.UserAccount.Name,
		schema.UserAccount.PasswordHash, schema.UserAccount.PasswordHash,
		schema.UserAccount.IsActive, schema.UserAccount.IsActive,
		schema.UserAccount.LastLoginAt, schema.UserAccount.LastLoginAt,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		id,
		patch.Email,
		patch.Name,
		patch.PasswordHash,
		patch.IsActive,
		patch.LastLoginAt,
		time.Now(),
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("postgres_user_repo_patch_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

// scanUser hydrates a single account row.
func (repository *PostgresUserRepository) scanUser(row pgx.Row, action string) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_user_repo_%s_failed: %w", action, err)
	}

	return user, nil
}

// # SessionRepository Methods

/*
Create persists a new session row.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Insert failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.UserSession.Table,
		schema.UserSession.ID, schema.UserSession.UserID, schema.UserSession.TokenHash,
		schema.UserSession.UserAgent, schema.UserSession.IPAddress,
		schema.UserSession.ExpiresAt, schema.UserSession.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves a session by its token hash. No expiry filter is
applied here; the service layer owns the validity decision.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated entity (possibly expired)
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserSession.ID, schema.UserSession.UserID, schema.UserSession.TokenHash,
		schema.UserSession.UserAgent, schema.UserSession.IPAddress,
		schema.UserSession.ExpiresAt, schema.UserSession.CreatedAt,
		schema.UserSession.Table, schema.UserSession.TokenHash,
	)

	session := &Session{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}

	return session, nil
}

/*
DeleteByTokenHash removes at most one session row. Zero rows affected is a
successful no-op, which is what makes logout idempotent.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Delete failures
*/
func (repository *PostgresSessionRepository) DeleteByTokenHash(context context.Context, tokenHash string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserSession.Table, schema.UserSession.TokenHash,
	)

	if _, err := repository.pool.Exec(context, query, tokenHash); err != nil {
		return fmt.Errorf("postgres_session_repo_delete_failed: %w", err)
	}

	return nil
}

/*
DeleteAllForUser removes every session of a user, the valid ones included.
Invoked by the password reset cascade.

Parameters:
  - context: context.Context
  - userID: string (UUID)

Returns:
  - error: Delete failures
*/
func (repository *PostgresSessionRepository) DeleteAllForUser(context context.Context, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserSession.Table, schema.UserSession.UserID,
	)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_session_repo_purge_failed: %w", err)
	}

	return nil
}

/*
PruneExpiredForUser removes only the sessions of a user whose expiry has
passed the given cutoff.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - now: time.Time

Returns:
  - error: Delete failures
*/
func (repository *PostgresSessionRepository) PruneExpiredForUser(context context.Context, userID string, now time.Time) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s <= $2`,
		schema.UserSession.Table, schema.UserSession.UserID, schema.UserSession.ExpiresAt,
	)

	if _, err := repository.pool.Exec(context, query, userID, now); err != nil {
		return fmt.Errorf("postgres_session_repo_prune_failed: %w", err)
	}

	return nil
}

// # ResetRepository Methods

/*
Insert persists a freshly issued reset request.

Parameters:
  - context: context.Context
  - request: *PasswordResetRequest

Returns:
  - error: Insert failures
*/
func (repository *PostgresResetRepository) Insert(context context.Context, request *PasswordResetRequest) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.UserPasswordReset.Table,
		schema.UserPasswordReset.ID, schema.UserPasswordReset.UserID,
		schema.UserPasswordReset.TokenHash, schema.UserPasswordReset.Used,
		schema.UserPasswordReset.ExpiresAt, schema.UserPasswordReset.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		request.ID,
		request.UserID,
		request.TokenHash,
		request.Used,
		request.ExpiresAt,
		request.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_reset_repo_insert_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves a reset request by its token hash, used or not.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *PasswordResetRequest: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresResetRepository) FindByTokenHash(context context.Context, tokenHash string) (*PasswordResetRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserPasswordReset.ID, schema.UserPasswordReset.UserID,
		schema.UserPasswordReset.TokenHash, schema.UserPasswordReset.Used,
		schema.UserPasswordReset.ExpiresAt, schema.UserPasswordReset.CreatedAt,
		schema.UserPasswordReset.Table, schema.UserPasswordReset.TokenHash,
	)

	request := &PasswordResetRequest{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&request.ID,
		&request.UserID,
		&request.TokenHash,
		&request.Used,
		&request.ExpiresAt,
		&request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Password reset request")
		}
		return nil, fmt.Errorf("postgres_reset_repo_find_failed: %w", err)
	}

	return request, nil
}

/*
MarkUsed flips the used flag. The row is kept for auditing.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - error: Update failures
*/
func (repository *PostgresResetRepository) MarkUsed(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`,
		schema.UserPasswordReset.Table, schema.UserPasswordReset.Used, schema.UserPasswordReset.ID,
	)

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return fmt.Errorf("postgres_reset_repo_mark_used_failed: %w", err)
	}

	return nil
}
