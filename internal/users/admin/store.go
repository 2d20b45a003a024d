// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package admin implements administrative management of operator accounts.
//
// It exposes the account directory plus the two privileged mutations the
// dashboard offers: changing a user's role and activating/deactivating an
// account. Both take effect on the target's very next request, because
// identity is re-resolved from the store per request.
package admin

import (
	"context"

	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/users/auth"
)

// Filter narrows the account listing.
type Filter struct {
	// Query matches against username and email (substring, case-insensitive).
	Query string
	// Role, when set, restricts results to accounts with exactly this role.
	Role sec.UserRole
}

// Repository defines the data access contract for account administration.
type Repository interface {

	/*
		ListUsers returns a page of accounts plus the unpaginated total.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*auth.User: Page of accounts, newest first
		  - int: Total matching accounts
		  - error: StoreUnavailable or query failures
	*/
	ListUsers(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error)

	/*
		UpdateRole sets an account's role.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - role: sec.UserRole

		Returns:
		  - error: NotFound, StoreUnavailable, or execution failures
	*/
	UpdateRole(context context.Context, userID string, role sec.UserRole) error

	/*
		SetActive activates or deactivates an account.

		Deactivation does not delete sessions: resolution rejects sessions of
		inactive accounts, so access ends immediately anyway.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - active: bool

		Returns:
		  - error: NotFound, StoreUnavailable, or execution failures
	*/
	SetActive(context context.Context, userID string, active bool) error
}
