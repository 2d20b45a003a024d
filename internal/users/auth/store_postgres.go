// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementations of the auth repositories.
//
// # err Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE codes, connection
// failures) are mapped through [dberr.Wrap] into domain-friendly
// [apperr.AppError] values, so no storage detail leaks past this file.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: The INSERT relies on the table's unique constraints for
(username) and (email); a concurrent duplicate surfaces as a Conflict
without revealing which column collided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Conflict, StoreUnavailable, or other database failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, salt, role, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, duplicateCredentialMessage)
	}

	return nil
}

const userColumns = `id, username, email, passwordhash, salt, role, isactive, createdat, lastloginat, updatedat`

// scanUser hydrates a User from a single-row query result.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Salt,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.LastLoginAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: NotFound, StoreUnavailable, or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "")
	}

	return user, nil
}

/*
FindByIdentifier retrieves a user whose username OR email matches exactly.

Description: Single lookup used at login so that the caller cannot observe
which field matched.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *User: Hydrated account entity
  - error: NotFound, StoreUnavailable, or execution errors
*/
func (repository *PostgresUserRepository) FindByIdentifier(context context.Context, identifier string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE username = $1 OR email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "")
	}

	return user, nil
}

/*
ExistsByUsernameOrEmail reports whether either credential field is taken.

Parameters:
  - context: context.Context
  - username: string
  - email: string

Returns:
  - bool: true if a matching row exists
  - error: StoreUnavailable or query failures
*/
func (repository *PostgresUserRepository) ExistsByUsernameOrEmail(context context.Context, username, email string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users.account WHERE username = $1 OR email = $2
		)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, username, email).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "")
	}

	return exists, nil
}

/*
UpdateLastLogin records the timestamp of a successful authentication.

Parameters:
  - context: context.Context
  - userID: string
  - loginTime: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateLastLogin(context context.Context, userID string, loginTime time.Time) error {
	const query = `
		UPDATE users.account
		SET lastloginat = $2, updatedat = $2
		WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID, loginTime); err != nil {
		return dberr.Wrap(err, "")
	}

	return nil
}

// # Session Repository

// PostgresSessionRepository implements the SessionRepository interface.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create persists a new session record into the users.session table.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (id, userid, createdat, expiresat)
		VALUES ($1, $2, $3, $4)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Session already exists")
	}

	return nil
}

/*
FindByID retrieves a live session by its token.

Description: The WHERE clause excludes expired rows, so an expired session is
indistinguishable from one that never existed. The store's clock (NOW()) is
the consistent time source for expiry.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Session: Hydrated session
  - error: NotFound, StoreUnavailable, or execution errors
*/
func (repository *PostgresSessionRepository) FindByID(context context.Context, id string) (*Session, error) {
	const query = `
		SELECT id, userid, createdat, expiresat
		FROM users.session
		WHERE id = $1 AND expiresat > NOW()`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, dberr.Wrap(err, "")
	}

	return session, nil
}

/*
Delete removes a session by token. Idempotent.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: StoreUnavailable or execution errors only
*/
func (repository *PostgresSessionRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM users.session WHERE id = $1"
	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "")
	}
	return nil
}

/*
DeleteExpired permanently removes all sessions that have passed their expiration.

Parameters:
  - context: context.Context

Returns:
  - int64: Number of rows removed
  - error: Cleanup failures
*/
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) (int64, error) {
	const query = "DELETE FROM users.session WHERE expiresat <= NOW()"
	tag, err := repository.pool.Exec(context, query)
	if err != nil {
		return 0, dberr.Wrap(err, "")
	}
	return tag.RowsAffected(), nil
}
