// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/users/auth"
)

type memRepository struct {
	users map[string]*auth.User
}

func newMemRepository() *memRepository {
	return &memRepository{users: make(map[string]*auth.User)}
}

func (repository *memRepository) ListUsers(_ context.Context, _ Filter, _, _ int) ([]*auth.User, int, error) {
	var users []*auth.User
	for _, item := range repository.users {
		copied := *item
		users = append(users, &copied)
	}
	return users, len(users), nil
}

func (repository *memRepository) UpdateRole(_ context.Context, userID string, role sec.UserRole) error {
	item, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	item.Role = role
	return nil
}

func (repository *memRepository) SetActive(_ context.Context, userID string, active bool) error {
	item, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	item.IsActive = active
	return nil
}

func newAdminService() (*Service, *memRepository) {
	repo := newMemRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger), repo
}

/*
TestUpdateRole covers the closed role set and the self-change guard.
*/
func TestUpdateRole(t *testing.T) {
	service, repo := newAdminService()
	repo.users["u1"] = &auth.User{ID: "u1", Role: sec.RoleUser, IsActive: true}

	// Promotion by a different admin succeeds.
	require.NoError(t, service.UpdateRole(context.Background(), "admin-1", "u1", sec.RoleAdmin))
	assert.Equal(t, sec.RoleAdmin, repo.users["u1"].Role)

	// Unknown role is rejected before any storage call.
	err := service.UpdateRole(context.Background(), "admin-1", "u1", sec.UserRole("root"))
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Equal(t, sec.RoleAdmin, repo.users["u1"].Role)

	// Self-demotion is refused.
	repo.users["admin-1"] = &auth.User{ID: "admin-1", Role: sec.RoleAdmin, IsActive: true}
	err = service.UpdateRole(context.Background(), "admin-1", "admin-1", sec.RoleUser)
	require.Error(t, err)
	appError = apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNPROCESSABLE", appError.Code)

	// Unknown target propagates as 404.
	err = service.UpdateRole(context.Background(), "admin-1", "missing", sec.RoleUser)
	require.Error(t, err)
	appError = apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

/*
TestSetActive covers deactivation and the self-deactivation guard.
*/
func TestSetActive(t *testing.T) {
	service, repo := newAdminService()
	repo.users["u1"] = &auth.User{ID: "u1", Role: sec.RoleUser, IsActive: true}
	repo.users["admin-1"] = &auth.User{ID: "admin-1", Role: sec.RoleAdmin, IsActive: true}

	require.NoError(t, service.SetActive(context.Background(), "admin-1", "u1", false))
	assert.False(t, repo.users["u1"].IsActive)

	require.NoError(t, service.SetActive(context.Background(), "admin-1", "u1", true))
	assert.True(t, repo.users["u1"].IsActive)

	err := service.SetActive(context.Background(), "admin-1", "admin-1", false)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNPROCESSABLE", appError.Code)
	assert.True(t, repo.users["admin-1"].IsActive)
}
