// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/internal/platform/database/schema"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for projects.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(context context.Context, project *Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.TaskProject.Table,
		schema.TaskProject.ID, schema.TaskProject.UserID, schema.TaskProject.Name,
		schema.TaskProject.Slug, schema.TaskProject.Color, schema.TaskProject.IsArchived,
		schema.TaskProject.CreatedAt, schema.TaskProject.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		project.ID, project.UserID, project.Name, project.Slug,
		project.Color, project.IsArchived, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_project_repo_create_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Project, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2`,
		schema.TaskProject.ID, schema.TaskProject.UserID, schema.TaskProject.Name,
		schema.TaskProject.Slug, schema.TaskProject.Color, schema.TaskProject.IsArchived,
		schema.TaskProject.CreatedAt, schema.TaskProject.UpdatedAt,
		schema.TaskProject.Table, schema.TaskProject.ID, schema.TaskProject.UserID,
	)

	project := &Project{}
	err := repository.pool.QueryRow(context, query, id, userID).Scan(
		&project.ID, &project.UserID, &project.Name, &project.Slug,
		&project.Color, &project.IsArchived, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Project")
		}
		return nil, fmt.Errorf("postgres_project_repo_find_failed: %w", err)
	}
	return project, nil
}

func (repository *PostgresRepository) ListForUser(context context.Context, userID string, includeArchived bool) ([]*Project, error) {
	filter := ""
	if !includeArchived {
		filter = fmt.Sprintf(" AND %s = FALSE", schema.TaskProject.IsArchived)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1%s
		ORDER BY %s DESC`,
		schema.TaskProject.ID, schema.TaskProject.UserID, schema.TaskProject.Name,
		schema.TaskProject.Slug, schema.TaskProject.Color, schema.TaskProject.IsArchived,
		schema.TaskProject.CreatedAt, schema.TaskProject.UpdatedAt,
		schema.TaskProject.Table, schema.TaskProject.UserID, filter,
		schema.TaskProject.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_project_repo_list_failed: %w", err)
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(
			&project.ID, &project.UserID, &project.Name, &project.Slug,
			&project.Color, &project.IsArchived, &project.CreatedAt, &project.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_project_repo_scan_failed: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (repository *PostgresRepository) Update(context context.Context, project *Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1 AND %s = $2`,
		schema.TaskProject.Table,
		schema.TaskProject.Name, schema.TaskProject.Slug, schema.TaskProject.Color,
		schema.TaskProject.IsArchived, schema.TaskProject.UpdatedAt,
		schema.TaskProject.ID, schema.TaskProject.UserID,
	)

	tag, err := repository.pool.Exec(context, query,
		project.ID, project.UserID,
		project.Name, project.Slug, project.Color, project.IsArchived, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_project_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Project")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.TaskProject.Table, schema.TaskProject.ID, schema.TaskProject.UserID,
	)

	tag, err := repository.pool.Exec(context, query, id, userID)
	if err != nil {
		return fmt.Errorf("postgres_project_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Project")
	}
	return nil
}
