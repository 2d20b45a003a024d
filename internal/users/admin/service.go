// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"log/slog"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/users/auth"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListUsers(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	return service.repo.ListUsers(context, filter, limit, offset)
}

// UpdateRole assigns a role from the closed role set to the target account.
//
// The role enum is closed: anything outside it is rejected before touching
// storage, so an unknown role can never be persisted and later fail open.
func (service *Service) UpdateRole(context context.Context, actorID, userID string, role sec.UserRole) error {
	if !role.IsValid() {
		return apperr.ValidationError("Unknown role", apperr.FieldError{
			Field:   "role",
			Message: "Must be one of: admin, user",
		})
	}

	// An admin demoting themselves would lock the last admin out mid-session.
	if actorID == userID {
		return apperr.Unprocessable("You cannot change your own role")
	}

	if err := service.repo.UpdateRole(context, userID, role); err != nil {
		return err
	}

	service.logger.Info("user_role_updated",
		slog.String("actor_id", actorID),
		slog.String("user_id", userID),
		slog.String("role", string(role)),
	)
	return nil
}

// SetActive toggles an account's activation flag.
//
// A deactivated account keeps its rows and sessions, but session resolution
// refuses it immediately.
func (service *Service) SetActive(context context.Context, actorID, userID string, active bool) error {
	if actorID == userID {
		return apperr.Unprocessable("You cannot deactivate your own account")
	}

	if err := service.repo.SetActive(context, userID, active); err != nil {
		return err
	}

	service.logger.Warn("user_active_changed",
		slog.String("actor_id", actorID),
		slog.String("user_id", userID),
		slog.Bool("active", active),
	)
	return nil
}
