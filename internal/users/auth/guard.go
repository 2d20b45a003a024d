// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
)

// # Authorization Guard

// Guard answers the two access-control questions the rest of the application
// asks: "who is making this request?" and "may they do this?".
//
// It is transport-agnostic: the caller hands it the raw token, regardless of
// whether it arrived in a cookie, a header, or a test harness. Every call
// re-resolves the session, so a demotion or deactivation takes effect on the
// very next request.
//
// Guard satisfies the middleware SessionResolver contract via ResolveIdentity.
type Guard struct {
	service *Service
}

// NewGuard creates a Guard backed by the given auth service.
func NewGuard(service *Service) *Guard {
	return &Guard{service: service}
}

/*
Authenticate resolves a session token into the caller's identity.

Parameters:
  - context: context.Context
  - token: string (opaque session token)

Returns:
  - *sec.Identity: Who the caller is
  - err: Unauthorized (invalid/expired/revoked token) or StoreUnavailable
*/
func (guard *Guard) Authenticate(context context.Context, token string) (*sec.Identity, error) {
	user, err := guard.service.ResolveSession(context, token)
	if err != nil {
		return nil, err
	}

	return &sec.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

/*
RequireRole authenticates the token and checks the caller's role level.

Description: Authentication failures keep their 401 shape; an authenticated
caller below the required level gets a 403. The split matters: 401 tells the
client to log in, 403 tells a logged-in client it lacks permission.

Parameters:
  - context: context.Context
  - token: string
  - role: sec.UserRole (minimum required level)

Returns:
  - *sec.Identity: The authorized caller
  - err: Unauthorized, Forbidden, or StoreUnavailable
*/
func (guard *Guard) RequireRole(context context.Context, token string, role sec.UserRole) (*sec.Identity, error) {
	identity, err := guard.Authenticate(context, token)
	if err != nil {
		return nil, err
	}

	if !identity.Role.AtLeast(role) {
		return nil, apperr.Forbidden("Insufficient permissions")
	}

	return identity, nil
}

// ResolveIdentity implements the middleware session-resolution contract.
func (guard *Guard) ResolveIdentity(context context.Context, token string) (*sec.Identity, error) {
	return guard.Authenticate(context, token)
}
