// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Implementations must surface store outages as apperr.StoreUnavailable —
// never as "not found" — so that callers can fail closed.
type UserRepository interface {

	/*
		Create persists a brand-new user account to the storage.

		The unique constraints on username and email are the source of truth
		for uniqueness under concurrent registration; a violation surfaces as
		an apperr Conflict.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Conflict, StoreUnavailable, or other persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: NotFound or StoreUnavailable
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByIdentifier returns the account whose username OR email matches
		the identifier exactly. Used at login.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - *User: Hydrated entity
		  - error: NotFound or StoreUnavailable
	*/
	FindByIdentifier(context context.Context, identifier string) (*User, error)

	/*
		ExistsByUsernameOrEmail reports whether an account already claims the
		username or the email. Advisory pre-check for registration — the
		database constraint remains authoritative.

		Parameters:
		  - context: context.Context
		  - username: string
		  - email: string

		Returns:
		  - bool: true if either value is taken
		  - error: StoreUnavailable or query failures
	*/
	ExistsByUsernameOrEmail(context context.Context, username, email string) (bool, error)

	/*
		UpdateLastLogin records the timestamp of a successful login.

		Best-effort side effect: callers must not fail the login if this
		write fails.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - loginTime: time.Time

		Returns:
		  - error: Persistence failures
	*/
	UpdateLastLogin(context context.Context, userID string, loginTime time.Time) error
}

// # Session Data Access

// SessionRepository defines the data access contract for opaque session tokens.
type SessionRepository interface {

	/*
		Create persists a new session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByID returns the live session with the given token.

		Expired sessions are treated as absent: the implementation must not
		distinguish "never existed" from "expired" to the caller.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Session: Hydrated entity
		  - error: NotFound or StoreUnavailable
	*/
	FindByID(context context.Context, id string) (*Session, error)

	/*
		Delete removes a session. Idempotent: deleting a session that does
		not exist (or has already expired) is not an error.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: StoreUnavailable or execution failures only
	*/
	Delete(context context.Context, id string) error

	/*
		DeleteExpired physically removes sessions whose ExpiresAt is in the
		past. Expiry is already enforced lazily at resolution time; this is
		storage reclamation, run by the task scheduler.

		Parameters:
		  - context: context.Context

		Returns:
		  - int64: Number of sessions removed
		  - error: Cleanup failures
	*/
	DeleteExpired(context context.Context) (int64, error)
}

// # Volatile Data Access

// ThrottleRepository defines the contract for failed-login counters.
//
// Counters live in volatile storage with a TTL; losing them only relaxes
// throttling, never authentication itself.
type ThrottleRepository interface {

	/*
		Incr increments the counter for a key, setting the TTL on first use.

		Parameters:
		  - context: context.Context
		  - key: string
		  - ttl: time.Duration

		Returns:
		  - int64: The counter value after incrementing
		  - error: Storage failures
	*/
	Incr(context context.Context, key string, ttl time.Duration) (int64, error)

	/*
		Reset clears the counter for a key after a successful login.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: Storage failures
	*/
	Reset(context context.Context, key string) error
}
