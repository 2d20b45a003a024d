// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Architecture
//
// Repositories never leak raw pgx errors to the service layer. Every error
// crossing the storage boundary is classified here into one of three
// outcomes: the row does not exist (NotFound), a uniqueness constraint fired
// (Conflict), or the store itself is unreachable (StoreUnavailable). The
// last category must stay distinct — an outage is never "not found".
package dberr

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. SQLSTATE classification. The unique constraint in the database is
	// the source of truth for uniqueness under concurrent writes; the
	// application-level existence check is advisory only.
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch {
		case pgError.Code == pgerrcode.UniqueViolation:
			return apperr.Conflict(conflictMessage)
		case pgerrcode.IsConnectionException(pgError.Code):
			return apperr.StoreUnavailable(err)
		}
	}

	// 3. Unreachable or timed-out store. A cancelled request deadline counts:
	// ambiguous state must fail closed, never resolve permissively.
	if isUnavailable(err) {
		return apperr.StoreUnavailable(err)
	}

	// 4. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// isUnavailable reports whether the error indicates the store is unreachable
// rather than a query-level failure.
func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var netError net.Error
	if errors.As(err, &netError) {
		return true
	}

	var connectError *pgconn.ConnectError
	return errors.As(err, &connectError)
}
