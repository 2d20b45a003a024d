// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
)

func newGuardFixture(t *testing.T) (*Guard, *serviceFixture) {
	t.Helper()
	fixture := newServiceFixture(t)
	return NewGuard(fixture.service), fixture
}

/*
TestGuard_Authenticate verifies token resolution to an identity.
*/
func TestGuard_Authenticate(t *testing.T) {
	guard, fixture := newGuardFixture(t)
	registered := fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator", Password: "a-long-password",
	})
	require.NoError(t, err)

	identity, err := guard.Authenticate(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, identity.UserID)
	assert.Equal(t, "operator", identity.Username)
	assert.Equal(t, sec.RoleUser, identity.Role)
}

/*
TestGuard_Authenticate_InvalidToken verifies unknown and empty tokens get
the 401 shape.
*/
func TestGuard_Authenticate_InvalidToken(t *testing.T) {
	guard, _ := newGuardFixture(t)

	for _, token := range []string{"", "bogus-token"} {
		_, err := guard.Authenticate(context.Background(), token)
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
	}
}

/*
TestGuard_RequireRole verifies the 401 vs 403 split: bad token is 401,
authenticated-but-underprivileged is 403.
*/
func TestGuard_RequireRole(t *testing.T) {
	guard, fixture := newGuardFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator", Password: "a-long-password",
	})
	require.NoError(t, err)

	// Regular user requesting admin: 403.
	_, err = guard.RequireRole(context.Background(), session.Token, sec.RoleAdmin)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "FORBIDDEN", appError.Code)

	// Unknown token requesting admin: 401, not 403.
	_, err = guard.RequireRole(context.Background(), "bogus-token", sec.RoleAdmin)
	require.Error(t, err)
	appError = apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)

	// User-level requirement is satisfied.
	_, err = guard.RequireRole(context.Background(), session.Token, sec.RoleUser)
	assert.NoError(t, err)
}

/*
TestGuard_RoleChangeWithoutRelogin verifies a promotion takes effect on the
next resolution of the SAME token.
*/
func TestGuard_RoleChangeWithoutRelogin(t *testing.T) {
	guard, fixture := newGuardFixture(t)
	registered := fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator", Password: "a-long-password",
	})
	require.NoError(t, err)

	_, err = guard.RequireRole(context.Background(), session.Token, sec.RoleAdmin)
	require.Error(t, err)

	fixture.users.setRole(registered.ID, sec.RoleAdmin)

	identity, err := guard.RequireRole(context.Background(), session.Token, sec.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, identity.Role)
}
