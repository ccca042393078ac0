// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/internal/platform/database/schema"
	"github.com/taskora/taskora/internal/tasks/label"
	"github.com/taskora/taskora/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for tasks.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// taskColumns is the canonical select list, kept in scan order.
func taskColumns() string {
	t := schema.TaskItem
	return strings.Join([]string{
		t.ID, t.UserID, t.ProjectID, t.ParentID, t.Title, t.Description,
		t.Status, t.Priority, t.Position, t.DueAt, t.CompletedAt,
		t.CreatedAt, t.UpdatedAt,
	}, ", ")
}

func scanTask(row pgx.Row) (*Task, error) {
	task := &Task{}
	err := row.Scan(
		&task.ID, &task.UserID, &task.ProjectID, &task.ParentID,
		&task.Title, &task.Description, &task.Status, &task.Priority,
		&task.Position, &task.DueAt, &task.CompletedAt,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (repository *PostgresRepository) Create(context context.Context, task *Task) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		schema.TaskItem.Table, taskColumns(),
	)

	_, err := repository.pool.Exec(context, query,
		task.ID, task.UserID, task.ProjectID, task.ParentID,
		task.Title, task.Description, task.Status, task.Priority,
		task.Position, task.DueAt, task.CompletedAt,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_task_repo_create_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = $2`,
		taskColumns(), schema.TaskItem.Table,
		schema.TaskItem.ID, schema.TaskItem.UserID,
	)

	task, err := scanTask(repository.pool.QueryRow(context, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Task")
		}
		return nil, fmt.Errorf("postgres_task_repo_find_failed: %w", err)
	}

	if err := repository.hydrateLabels(context, map[string]*Task{task.ID: task}); err != nil {
		return nil, err
	}
	return task, nil
}

/*
List returns a page of tasks matching the filter plus the unpaged total.

Filters compose as AND conditions; label filtering goes through an EXISTS
on the join table so unlabelled tasks never multiply in the result.
*/
func (repository *PostgresRepository) List(context context.Context, userID string, filter Filter, page pagination.Params) ([]*Task, int, error) {
	t := schema.TaskItem
	conditions := []string{fmt.Sprintf("%s = $1", t.UserID)}
	arguments := []any{userID}

	addCondition := func(condition string, value any) {
		arguments = append(arguments, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(arguments)))
	}

	if filter.ProjectID != nil {
		addCondition(t.ProjectID+" = $%d", *filter.ProjectID)
	}
	if filter.ParentID != nil {
		addCondition(t.ParentID+" = $%d", *filter.ParentID)
	} else if filter.RootsOnly {
		conditions = append(conditions, t.ParentID+" IS NULL")
	}
	if filter.Status != nil {
		addCondition(t.Status+" = $%d", *filter.Status)
	}
	if filter.DueBefore != nil {
		addCondition(t.DueAt+" <= $%d", *filter.DueBefore)
	}
	if filter.Search != "" {
		addCondition(t.Title+" ILIKE $%d", "%"+filter.Search+"%")
	}
	if len(filter.LabelIDs) > 0 {
		arguments = append(arguments, filter.LabelIDs)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s il WHERE il.%s = %s.%s AND il.%s = ANY($%d))",
			schema.TaskItemLabel.Table, schema.TaskItemLabel.TaskID,
			t.Table, t.ID, schema.TaskItemLabel.LabelID, len(arguments),
		))
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, t.Table, where)
	total := 0
	if err := repository.pool.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_task_repo_count_failed: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY %s ASC, %s DESC
		LIMIT %d OFFSET %d`,
		taskColumns(), t.Table, where,
		t.Position, t.CreatedAt,
		page.Limit, page.Offset(),
	)

	rows, err := repository.pool.Query(context, listQuery, arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_task_repo_list_failed: %w", err)
	}
	defer rows.Close()

	tasks := []*Task{}
	byID := map[string]*Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_task_repo_scan_failed: %w", err)
		}
		tasks = append(tasks, task)
		byID[task.ID] = task
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_task_repo_rows_failed: %w", err)
	}

	if err := repository.hydrateLabels(context, byID); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, task *Task) error {
	t := schema.TaskItem
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
		    %s = $8, %s = $9, %s = $10, %s = $11
		WHERE %s = $1 AND %s = $2`,
		t.Table,
		t.ProjectID, t.Title, t.Description, t.Status, t.Priority,
		t.Position, t.DueAt, t.CompletedAt, t.UpdatedAt,
		t.ID, t.UserID,
	)

	tag, err := repository.pool.Exec(context, query,
		task.ID, task.UserID,
		task.ProjectID, task.Title, task.Description, task.Status, task.Priority,
		task.Position, task.DueAt, task.CompletedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_task_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Task")
	}
	return nil
}

// Delete removes the task row; the schema's ON DELETE CASCADE takes the
// subtasks and label assignments with it.
func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.TaskItem.Table, schema.TaskItem.ID, schema.TaskItem.UserID,
	)

	tag, err := repository.pool.Exec(context, query, id, userID)
	if err != nil {
		return fmt.Errorf("postgres_task_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Task")
	}
	return nil
}

func (repository *PostgresRepository) NextPosition(context context.Context, userID string, projectID *string) (int, error) {
	t := schema.TaskItem
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(%s), 0) + 1 FROM %s
		WHERE %s = $1 AND %s IS NOT DISTINCT FROM $2`,
		t.Position, t.Table, t.UserID, t.ProjectID,
	)

	position := 0
	if err := repository.pool.QueryRow(context, query, userID, projectID).Scan(&position); err != nil {
		return 0, fmt.Errorf("postgres_task_repo_next_position_failed: %w", err)
	}
	return position, nil
}

/*
SetLabels replaces the task's label set inside one transaction.

The insert joins against the label table scoped by owner, so a label ID
belonging to another user silently drops out instead of linking.
*/
func (repository *PostgresRepository) SetLabels(context context.Context, userID, taskID string, labelIDs []string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_task_repo_label_tx_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	clearQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.TaskItemLabel.Table, schema.TaskItemLabel.TaskID,
	)
	if _, err := transaction.Exec(context, clearQuery, taskID); err != nil {
		return fmt.Errorf("postgres_task_repo_label_clear_failed: %w", err)
	}

	if len(labelIDs) > 0 {
		insertQuery := fmt.Sprintf(`
			INSERT INTO %s (%s, %s)
			SELECT $1, %s FROM %s
			WHERE %s = ANY($2) AND %s = $3`,
			schema.TaskItemLabel.Table, schema.TaskItemLabel.TaskID, schema.TaskItemLabel.LabelID,
			schema.TaskLabel.ID, schema.TaskLabel.Table,
			schema.TaskLabel.ID, schema.TaskLabel.UserID,
		)
		if _, err := transaction.Exec(context, insertQuery, taskID, labelIDs, userID); err != nil {
			return fmt.Errorf("postgres_task_repo_label_insert_failed: %w", err)
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_task_repo_label_commit_failed: %w", err)
	}
	return nil
}

// hydrateLabels attaches labels to the given tasks in one query.
func (repository *PostgresRepository) hydrateLabels(context context.Context, tasks map[string]*Task) error {
	if len(tasks) == 0 {
		return nil
	}

	taskIDs := make([]string, 0, len(tasks))
	for id := range tasks {
		taskIDs = append(taskIDs, id)
	}

	query := fmt.Sprintf(`
		SELECT il.%s, l.%s, l.%s, l.%s, l.%s, l.%s
		FROM %s il
		JOIN %s l ON l.%s = il.%s
		WHERE il.%s = ANY($1)
		ORDER BY l.%s ASC`,
		schema.TaskItemLabel.TaskID,
		schema.TaskLabel.ID, schema.TaskLabel.UserID, schema.TaskLabel.Name,
		schema.TaskLabel.Color, schema.TaskLabel.CreatedAt,
		schema.TaskItemLabel.Table,
		schema.TaskLabel.Table, schema.TaskLabel.ID, schema.TaskItemLabel.LabelID,
		schema.TaskItemLabel.TaskID,
		schema.TaskLabel.Name,
	)

	rows, err := repository.pool.Query(context, query, taskIDs)
	if err != nil {
		return fmt.Errorf("postgres_task_repo_label_hydrate_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID string
		attached := &label.Label{}
		if err := rows.Scan(&taskID, &attached.ID, &attached.UserID, &attached.Name, &attached.Color, &attached.CreatedAt); err != nil {
			return fmt.Errorf("postgres_task_repo_label_scan_failed: %w", err)
		}
		if task, ok := tasks[taskID]; ok {
			task.Labels = append(task.Labels, attached)
		}
	}
	return rows.Err()
}
