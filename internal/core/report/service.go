// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/opsboard/internal/core/export"
	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/platform/validate"
	"github.com/taibuivan/opsboard/pkg/slug"
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

func (service *Service) ListReports(context context.Context, filter Filter, limit, offset int) ([]*Report, int, error) {
	return service.repo.ListReports(context, filter, limit, offset)
}

func (service *Service) GetReport(context context.Context, slugValue string) (*Report, error) {
	return service.repo.GetBySlug(context, slugValue)
}

// CreateReport validates and persists a new report owned by the caller.
//
// The slug is derived from the name; the dataset and its columns are checked
// against the export whitelist so a report can never name data the export
// layer would refuse to read.
func (service *Service) CreateReport(context context.Context, owner *sec.Identity, input *Report) (*Report, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Required(FieldDataset, input.Dataset).
		Custom(FieldColumns, len(input.Columns) == 0, "At least one column is required")

	dataset, known := export.Lookup(input.Dataset)
	if input.Dataset != "" && !known {
		validator.Custom(FieldDataset, true,
			"Must be one of: "+strings.Join(export.DatasetNames(), ", "))
	}

	if known {
		allowed := make(map[string]bool, len(dataset.Columns))
		for _, column := range dataset.Columns {
			allowed[column] = true
		}
		for _, column := range input.Columns {
			if !allowed[column] {
				validator.Custom(FieldColumns, true, "Unknown column: "+column)
				break
			}
		}
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	created := &Report{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Dataset:     input.Dataset,
		Columns:     input.Columns,
		Description: input.Description,
		OwnerID:     owner.UserID,
	}

	if created.Slug == "" {
		return nil, validate.RequiredError(FieldName, "Cannot derive a slug from this name")
	}

	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.Info("report_created",
		slog.String("slug", created.Slug),
		slog.String("owner_id", created.OwnerID),
	)
	return created, nil
}

// DeleteReport removes a report. Only the owner or an admin may delete.
func (service *Service) DeleteReport(context context.Context, caller *sec.Identity, slugValue string) error {
	existing, err := service.repo.GetBySlug(context, slugValue)
	if err != nil {
		return err
	}

	if existing.OwnerID != caller.UserID && !caller.Role.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("Only the owner or an admin can delete this report")
	}

	if err := service.repo.Delete(context, slugValue); err != nil {
		return err
	}

	service.logger.Warn("report_deleted",
		slog.String("slug", slugValue),
		slog.String("actor_id", caller.UserID),
	)
	return nil
}
