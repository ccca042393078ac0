package label

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

func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(context context.Context, label *Label) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.TaskLabel.Table,
		schema.TaskLabel.ID, schema.TaskLabel.UserID, schema.TaskLabel.Name,
		schema.TaskLabel.Color, schema.TaskLabel.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		label.ID, label.UserID, label.Name, label.Color, label.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_label_repo_create_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Label, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2`,
		schema.TaskLabel.ID, schema.TaskLabel.UserID, schema.TaskLabel.Name,
		schema.TaskLabel.Color, schema.TaskLabel.CreatedAt,
		schema.TaskLabel.Table, schema.TaskLabel.ID, schema.TaskLabel.UserID,
	)

	label := &Label{}
	err := repository.pool.QueryRow(context, query, id, userID).Scan(
		&label.ID, &label.UserID, &label.Name, &label.Color, &label.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Label")
		}
		return nil, fmt.Errorf("postgres_label_repo_find_failed: %w", err)
	}
	return label, nil
}

func (repository *PostgresRepository) ListForUser(context context.Context, userID string) ([]*Label, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.TaskLabel.ID, schema.TaskLabel.UserID, schema.TaskLabel.Name,
		schema.TaskLabel.Color, schema.TaskLabel.CreatedAt,
		schema.TaskLabel.Table, schema.TaskLabel.UserID, schema.TaskLabel.Name,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_label_repo_list_failed: %w", err)
	}
	defer rows.Close()

	labels := []*Label{}
	for rows.Next() {
		label := &Label{}
		if err := rows.Scan(&label.ID, &label.UserID, &label.Name, &label.Color, &label.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_label_repo_scan_failed: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (repository *PostgresRepository) Update(context context.Context, label *Label) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4
		WHERE %s = $1 AND %s = $2`,
		schema.TaskLabel.Table,
		schema.TaskLabel.Name, schema.TaskLabel.Color,
		schema.TaskLabel.ID, schema.TaskLabel.UserID,
	)

	tag, err := repository.pool.Exec(context, query, label.ID, label.UserID, label.Name, label.Color)
	if err != nil {
		return fmt.Errorf("postgres_label_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Label")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.TaskLabel.Table, schema.TaskLabel.ID, schema.TaskLabel.UserID,
	)

	tag, err := repository.pool.Exec(context, query, id, userID)
	if err != nil {
		return fmt.Errorf("postgres_label_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Label")
	}
	return nil
}
