// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
)

// testClock is a mutable time source shared by the service and the session
// repository so that expiry is evaluated against one clock.
type testClock struct {
	current time.Time
}

func (clock *testClock) now() time.Time { return clock.current }

func (clock *testClock) advance(d time.Duration) { clock.current = clock.current.Add(d) }

type serviceFixture struct {
	service  *Service
	users    *memUserRepository
	sessions *memSessionRepository
	throttle *memThrottleRepository
	clock    *testClock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	clock := &testClock{current: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	users := newMemUserRepository()
	sessions := newMemSessionRepository(clock.now)
	throttle := newMemThrottleRepository()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(users, sessions, throttle, DefaultSessionTTL, logger)
	service.now = clock.now

	return &serviceFixture{
		service:  service,
		users:    users,
		sessions: sessions,
		throttle: throttle,
		clock:    clock,
	}
}

func (fixture *serviceFixture) register(t *testing.T, username, email, password string) *User {
	t.Helper()
	user, err := fixture.service.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

/*
TestRegister_NewUser verifies the happy path: stored credential, default
role, active flag, and that the plaintext password is not retained.
*/
func TestRegister_NewUser(t *testing.T) {
	fixture := newServiceFixture(t)

	user := fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEmpty(t, user.Salt)
	assert.NotContains(t, string(user.PasswordHash), "a-long-password")
}

/*
TestRegister_Duplicate verifies duplicate username and duplicate email both
fail with the same Conflict shape, leaving exactly one stored account.
*/
func TestRegister_Duplicate(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same_username", "operator", "other@opsboard.app"},
		{"same_email", "other", "op@opsboard.app"},
		{"same_both", "operator", "op@opsboard.app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.service.Register(context.Background(), RegisterInput{
				Username: tt.username,
				Email:    tt.email,
				Password: "another-password",
			})

			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "CONFLICT", appError.Code)
			assert.Equal(t, duplicateCredentialMessage, appError.Message)
		})
	}

	assert.Len(t, fixture.users.users, 1)
}

/*
TestLogin_Success verifies a valid login issues a session with the
configured lifetime and records the login time.
*/
func TestLogin_Success(t *testing.T) {
	fixture := newServiceFixture(t)
	registered := fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator",
		Password:   "a-long-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.Token)
	assert.Equal(t, registered.ID, session.User.ID)
	assert.Equal(t, fixture.clock.current.Add(DefaultSessionTTL), session.ExpiresAt)

	stored, err := fixture.users.FindByID(context.Background(), registered.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, fixture.clock.current, *stored.LastLoginAt)
}

/*
TestLogin_ByEmail verifies the identifier matches the email field too.
*/
func TestLogin_ByEmail(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	_, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "op@opsboard.app",
		Password:   "a-long-password",
	})
	assert.NoError(t, err)
}

/*
TestLogin_IdentifierExactMatch verifies identifier matching is exact, the
same as the store's equality comparison: a re-cased email is an unknown
identifier, not an alternate spelling of a known one.
*/
func TestLogin_IdentifierExactMatch(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	for _, identifier := range []string{"OP@opsboard.app", "Operator"} {
		_, err := fixture.service.Login(context.Background(), LoginInput{
			Identifier: identifier,
			Password:   "a-long-password",
		})
		require.Error(t, err)
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "UNAUTHORIZED", appError.Code)
		assert.Equal(t, invalidCredentialMessage, appError.Message)
	}
}

/*
TestLogin_ErrorShapeConflation verifies that unknown identifier, wrong
password, and deactivated account produce byte-identical error responses.
*/
func TestLogin_ErrorShapeConflation(t *testing.T) {
	fixture := newServiceFixture(t)
	user := fixture.register(t, "operator", "op@opsboard.app", "a-long-password")
	fixture.users.setActive(user.ID, false)
	fixture.register(t, "active", "active@opsboard.app", "a-long-password")

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{"unknown_identifier", "nobody", "a-long-password"},
		{"wrong_password", "active", "wrong-password"},
		{"deactivated_account", "operator", "a-long-password"},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixture.service.Login(context.Background(), LoginInput{
				Identifier: tt.identifier,
				Password:   tt.password,
			})

			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "UNAUTHORIZED", appError.Code)
			messages = append(messages, appError.Message)
		})
	}

	// All three failures carry the exact same message.
	for _, message := range messages {
		assert.Equal(t, invalidCredentialMessage, message)
	}
}

/*
TestLogin_Throttled verifies the attempt counter rejects logins past the
limit, and that a successful login resets the counter.
*/
func TestLogin_Throttled(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	for i := 0; i < MaxLoginAttempts; i++ {
		_, err := fixture.service.Login(context.Background(), LoginInput{
			Identifier: "operator",
			Password:   "wrong-password",
		})
		require.Error(t, err)
	}

	// Attempt 11 trips the throttle even with the correct password.
	_, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator",
		Password:   "a-long-password",
	})
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "RATE_LIMITED", appError.Code)

	// A successful login once the window clears resets the counter.
	fixture.throttle.counters = map[string]int64{}
	_, err = fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator",
		Password:   "a-long-password",
	})
	require.NoError(t, err)
	assert.Empty(t, fixture.throttle.counters)
}

/*
TestLogin_ThrottleStoreDown verifies throttling fails open: a broken
counter store never blocks a valid login.
*/
func TestLogin_ThrottleStoreDown(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")
	fixture.throttle.failWith = apperr.StoreUnavailable(nil)

	_, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator",
		Password:   "a-long-password",
	})
	assert.NoError(t, err)
}

/*
TestResolveSession_ExpiryBoundary pins the expiry boundary: valid one
second before ExpiresAt, invalid exactly at it.
*/
func TestResolveSession_ExpiryBoundary(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator",
		Password:   "a-long-password",
	})
	require.NoError(t, err)

	// One second before expiry: still valid.
	fixture.clock.advance(DefaultSessionTTL - time.Second)
	_, err = fixture.service.ResolveSession(context.Background(), session.Token)
	assert.NoError(t, err)

	// Exactly at expiry: invalid.
	fixture.clock.advance(time.Second)
	_, err = fixture.service.ResolveSession(context.Background(), session.Token)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

/*
TestResolveSession_Revoked verifies a logged-out token stops resolving.
*/
func TestResolveSession_Revoked(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator",
		Password:   "a-long-password",
	})
	require.NoError(t, err)

	require.NoError(t, fixture.service.Logout(context.Background(), session.Token))

	_, err = fixture.service.ResolveSession(context.Background(), session.Token)
	assert.Error(t, err)
}

/*
TestResolveSession_DeactivatedUser verifies a live session stops working
the moment its owner is deactivated.
*/
func TestResolveSession_DeactivatedUser(t *testing.T) {
	fixture := newServiceFixture(t)
	registered := fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator",
		Password:   "a-long-password",
	})
	require.NoError(t, err)

	fixture.users.setActive(registered.ID, false)

	_, err = fixture.service.ResolveSession(context.Background(), session.Token)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

/*
TestResolveSession_StoreUnavailable verifies an outage propagates as a
distinct 503 shape rather than "invalid session".
*/
func TestResolveSession_StoreUnavailable(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator",
		Password:   "a-long-password",
	})
	require.NoError(t, err)

	fixture.sessions.failWith = apperr.StoreUnavailable(nil)

	_, err = fixture.service.ResolveSession(context.Background(), session.Token)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "STORE_UNAVAILABLE", appError.Code)
}

/*
TestLogout_Idempotent verifies logout succeeds for expired, unknown, and
already-removed tokens.
*/
func TestLogout_Idempotent(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	session, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator",
		Password:   "a-long-password",
	})
	require.NoError(t, err)

	assert.NoError(t, fixture.service.Logout(context.Background(), session.Token))
	assert.NoError(t, fixture.service.Logout(context.Background(), session.Token))
	assert.NoError(t, fixture.service.Logout(context.Background(), "never-issued"))
	assert.NoError(t, fixture.service.Logout(context.Background(), ""))
}

/*
TestLogin_MultipleSessions verifies concurrent sessions for one account
are independent: revoking one leaves the other valid.
*/
func TestLogin_MultipleSessions(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	first, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator", Password: "a-long-password",
	})
	require.NoError(t, err)
	second, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator", Password: "a-long-password",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	require.NoError(t, fixture.service.Logout(context.Background(), first.Token))

	_, err = fixture.service.ResolveSession(context.Background(), first.Token)
	assert.Error(t, err)
	_, err = fixture.service.ResolveSession(context.Background(), second.Token)
	assert.NoError(t, err)
}

/*
TestPurgeExpiredSessions verifies only expired rows are reclaimed.
*/
func TestPurgeExpiredSessions(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.register(t, "operator", "op@opsboard.app", "a-long-password")

	_, err := fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator", Password: "a-long-password",
	})
	require.NoError(t, err)

	fixture.clock.advance(DefaultSessionTTL + time.Minute)

	_, err = fixture.service.Login(context.Background(), LoginInput{
		Identifier: "operator", Password: "a-long-password",
	})
	require.NoError(t, err)

	removed, err := fixture.service.PurgeExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, fixture.sessions.count())
}
