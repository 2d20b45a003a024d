// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"strconv"

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

const reportColumns = `id, name, slug, dataset, columns, description, ownerid, createdat, updatedat`

func (repository *PostgresRepository) ListReports(context context.Context, filter Filter, limit, offset int) ([]*Report, int, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM core.report
		WHERE 1=1`
	countQuery := `SELECT count(*) FROM core.report WHERE 1=1`

	args := []any{}
	countArgs := []any{}

	if filter.Query != "" {
		clause := ` AND name ILIKE $` + itos(len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, "%"+filter.Query+"%")
		countArgs = append(countArgs, "%"+filter.Query+"%")
	}

	if filter.Dataset != "" {
		query += ` AND dataset = $` + itos(len(args)+1)
		countQuery += ` AND dataset = $` + itos(len(countArgs)+1)
		args = append(args, filter.Dataset)
		countArgs = append(countArgs, filter.Dataset)
	}

	query += ` ORDER BY createdat DESC LIMIT $` + itos(len(args)+1) + ` OFFSET $` + itos(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		item := &Report{}
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Slug,
			&item.Dataset,
			&item.Columns,
			&item.Description,
			&item.OwnerID,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		reports = append(reports, item)
	}

	return reports, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Report, error) {
	const query = `
		SELECT ` + reportColumns + `
		FROM core.report
		WHERE slug = $1`

	item := &Report{}
	err := repository.db.QueryRow(context, query, slug).Scan(
		&item.ID,
		&item.Name,
		&item.Slug,
		&item.Dataset,
		&item.Columns,
		&item.Description,
		&item.OwnerID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return item, nil
}

func (repository *PostgresRepository) Create(context context.Context, report *Report) error {
	const query = `
		INSERT INTO core.report (id, name, slug, dataset, columns, description, ownerid, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		report.ID,
		report.Name,
		report.Slug,
		report.Dataset,
		report.Columns,
		report.Description,
		report.OwnerID,
	).Scan(&report.CreatedAt, &report.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "A report with this slug already exists")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	const query = `DELETE FROM core.report WHERE slug = $1`

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func itos(i int) string {
	return strconv.Itoa(i)
}
