// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/opsboard/internal/platform/dberr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/users/auth"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListUsers(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	query := `
		SELECT id, username, email, role, isactive, createdat, lastloginat, updatedat
		FROM users.account
		WHERE 1=1`
	countQuery := `SELECT count(*) FROM users.account WHERE 1=1`

	args := []any{}
	countArgs := []any{}

	if filter.Query != "" {
		searchTerm := "%" + filter.Query + "%"
		clause := ` AND (username ILIKE $` + itos(len(args)+1) + ` OR email ILIKE $` + itos(len(args)+1) + `)`
		query += clause
		countQuery += clause
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	if filter.Role != "" {
		query += ` AND role = $` + itos(len(args)+1)
		countQuery += ` AND role = $` + itos(len(countArgs)+1)
		args = append(args, filter.Role)
		countArgs = append(countArgs, filter.Role)
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

	var users []*auth.User
	for rows.Next() {
		user := &auth.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Role,
			&user.IsActive,
			&user.CreatedAt,
			&user.LastLoginAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		users = append(users, user)
	}

	return users, total, nil
}

func (repository *PostgresRepository) UpdateRole(context context.Context, userID string, role sec.UserRole) error {
	const query = `
		UPDATE users.account
		SET role = $2, updatedat = NOW()
		WHERE id = $1`

	tag, err := repository.db.Exec(context, query, userID, role)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SetActive(context context.Context, userID string, active bool) error {
	const query = `
		UPDATE users.account
		SET isactive = $2, updatedat = NOW()
		WHERE id = $1`

	tag, err := repository.db.Exec(context, query, userID, active)
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
