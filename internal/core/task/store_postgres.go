// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/opsboard/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, name, cronexpr, kind, dataset, enabled, lastrunat, createdat, updatedat`

func scanTask(row pgx.Row) (*Task, error) {
	item := &Task{}
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.CronExpr,
		&item.Kind,
		&item.Dataset,
		&item.Enabled,
		&item.LastRunAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (repository *PostgresRepository) list(context context.Context, query string) ([]*Task, error) {
	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		item, err := scanTask(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "")
		}
		tasks = append(tasks, item)
	}

	return tasks, nil
}

func (repository *PostgresRepository) ListTasks(context context.Context) ([]*Task, error) {
	return repository.list(context, `
		SELECT `+taskColumns+`
		FROM core.task
		ORDER BY createdat DESC`)
}

func (repository *PostgresRepository) ListEnabled(context context.Context) ([]*Task, error) {
	return repository.list(context, `
		SELECT `+taskColumns+`
		FROM core.task
		WHERE enabled
		ORDER BY createdat`)
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM core.task
		WHERE id = $1`

	item, err := scanTask(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return item, nil
}

func (repository *PostgresRepository) Create(context context.Context, task *Task) error {
	const query = `
		INSERT INTO core.task (id, name, cronexpr, kind, dataset, enabled, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		task.ID,
		task.Name,
		task.CronExpr,
		task.Kind,
		task.Dataset,
		task.Enabled,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "A task with this name already exists")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, task *Task) error {
	const query = `
		UPDATE core.task
		SET name = $2, cronexpr = $3, kind = $4, dataset = $5, enabled = $6, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query,
		task.ID,
		task.Name,
		task.CronExpr,
		task.Kind,
		task.Dataset,
		task.Enabled,
	).Scan(&task.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "A task with this name already exists")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM core.task WHERE id = $1`

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) MarkRun(context context.Context, id string, runTime time.Time) error {
	const query = `
		UPDATE core.task
		SET lastrunat = $2
		WHERE id = $1`

	if _, err := repository.db.Exec(context, query, id, runTime); err != nil {
		return dberr.Wrap(err, "")
	}
	return nil
}
