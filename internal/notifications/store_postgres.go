// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package notifications

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskora/taskora/internal/platform/apperr"
	"github.com/taskora/taskora/internal/platform/database/schema"
	"github.com/taskora/taskora/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for notifications.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(context context.Context, notification *Notification) error {
	n := schema.Notification
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.Table, n.ID, n.UserID, n.Kind, n.Title, n.Body, n.IsRead, n.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		notification.ID, notification.UserID, notification.Kind,
		notification.Title, notification.Body, notification.IsRead, notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_notification_repo_create_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) ListForUser(context context.Context, userID string, unreadOnly bool, page pagination.Params) ([]*Notification, int, error) {
	n := schema.Notification

	filter := ""
	if unreadOnly {
		filter = fmt.Sprintf(" AND %s = FALSE", n.IsRead)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1%s`, n.Table, n.UserID, filter)
	total := 0
	if err := repository.pool.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_notification_repo_count_failed: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1%s
		ORDER BY %s DESC
		LIMIT %d OFFSET %d`,
		n.ID, n.UserID, n.Kind, n.Title, n.Body, n.IsRead, n.CreatedAt,
		n.Table, n.UserID, filter, n.CreatedAt,
		page.Limit, page.Offset(),
	)

	rows, err := repository.pool.Query(context, listQuery, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_notification_repo_list_failed: %w", err)
	}
	defer rows.Close()

	notifications := []*Notification{}
	for rows.Next() {
		notification := &Notification{}
		if err := rows.Scan(
			&notification.ID, &notification.UserID, &notification.Kind,
			&notification.Title, &notification.Body, &notification.IsRead, &notification.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_notification_repo_scan_failed: %w", err)
		}
		notifications = append(notifications, notification)
	}
	return notifications, total, rows.Err()
}

func (repository *PostgresRepository) MarkRead(context context.Context, userID, id string) error {
	n := schema.Notification
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = $2`,
		n.Table, n.IsRead, n.ID, n.UserID,
	)

	tag, err := repository.pool.Exec(context, query, id, userID)
	if err != nil {
		return fmt.Errorf("postgres_notification_repo_mark_read_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Notification")
	}
	return nil
}

func (repository *PostgresRepository) MarkAllRead(context context.Context, userID string) error {
	n := schema.Notification
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = FALSE`,
		n.Table, n.IsRead, n.UserID, n.IsRead,
	)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_notification_repo_mark_all_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) CountUnread(context context.Context, userID string) (int, error) {
	n := schema.Notification
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s = FALSE`,
		n.Table, n.UserID, n.IsRead,
	)

	count := 0
	if err := repository.pool.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_notification_repo_unread_failed: %w", err)
	}
	return count, nil
}
