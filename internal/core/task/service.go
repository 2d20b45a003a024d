// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/taibuivan/opsboard/internal/core/export"
	"github.com/taibuivan/opsboard/internal/platform/validate"
	"github.com/taibuivan/opsboard/pkg/uuid"
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

func (service *Service) ListTasks(context context.Context) ([]*Task, error) {
	return service.repo.ListTasks(context)
}

func (service *Service) GetTask(context context.Context, id string) (*Task, error) {
	return service.repo.GetByID(context, id)
}

// validateDefinition checks the fields shared by create and update.
//
// The cron expression is parsed with the same parser the scheduler uses, so
// a definition that validates here can never fail to register later.
func validateDefinition(task *Task) error {
	validator := &validate.Validator{}
	validator.Required(FieldTaskName, task.Name).
		MaxLen(FieldTaskName, task.Name, 200).
		Required(FieldCronExpr, task.CronExpr).
		Custom(FieldKind, !task.Kind.IsValid(),
			"Must be one of: "+string(KindPurgeSessions)+", "+string(KindExportDataset))

	if task.CronExpr != "" {
		if _, err := cron.ParseStandard(task.CronExpr); err != nil {
			validator.Custom(FieldCronExpr, true, "Invalid cron expression")
		}
	}

	switch task.Kind {
	case KindExportDataset:
		if _, ok := export.Lookup(task.Dataset); !ok {
			validator.Custom(FieldDataset, true,
				"Must be one of: "+strings.Join(export.DatasetNames(), ", "))
		}
	case KindPurgeSessions:
		validator.Custom(FieldDataset, task.Dataset != "", "Not applicable for this kind")
	}

	return validator.Err()
}

func (service *Service) CreateTask(context context.Context, input *Task) (*Task, error) {
	if err := validateDefinition(input); err != nil {
		return nil, err
	}

	created := &Task{
		ID:       uuid.New(),
		Name:     input.Name,
		CronExpr: input.CronExpr,
		Kind:     input.Kind,
		Dataset:  input.Dataset,
		Enabled:  input.Enabled,
	}

	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.Info("task_created",
		slog.String("task_id", created.ID),
		slog.String("kind", string(created.Kind)),
	)
	return created, nil
}

// UpdateTask rewrites a task definition.
//
// Changes take effect at the next scheduler reload, not mid-flight; the
// handler response says the definition changed, nothing more.
func (service *Service) UpdateTask(context context.Context, id string, input *Task) (*Task, error) {
	existing, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.CronExpr = input.CronExpr
	existing.Kind = input.Kind
	existing.Dataset = input.Dataset
	existing.Enabled = input.Enabled

	if err := validateDefinition(existing); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("task_updated", slog.String("task_id", id))
	return existing, nil
}

func (service *Service) DeleteTask(context context.Context, id string) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("task_deleted", slog.String("task_id", id))
	return nil
}
