// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package export

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/platform/validate"
	"github.com/taibuivan/opsboard/pkg/uuid"
)

type Service struct {
	reader Reader
	cache  ArtifactCache
	signer *sec.LinkSigner
	logger *slog.Logger
}

func NewService(reader Reader, cache ArtifactCache, signer *sec.LinkSigner, logger *slog.Logger) *Service {
	return &Service{
		reader: reader,
		cache:  cache,
		signer: signer,
		logger: logger,
	}
}

// Result is the outcome of a successful export run.
type Result struct {
	Token     string `json:"token"`
	Dataset   string `json:"dataset"`
	SizeBytes int    `json:"size_bytes"`
	Rows      int    `json:"-"`
}

/*
Run executes an export for the given dataset on behalf of an admin.

Description: The whitelist lookup happens before any data is read; an
unknown dataset never reaches the database. The rendered CSV is cached for
[ArtifactTTL] and a signed token naming the artifact is returned. The
caller's admin role has already been enforced by the route guard — the
dataset query must never run for a non-admin.

Parameters:
  - context: context.Context
  - actor: *sec.Identity (the requesting admin)
  - datasetName: string

Returns:
  - *Result: Download token and payload metadata
  - err: Validation, StoreUnavailable, or signing failures
*/
func (service *Service) Run(context context.Context, actor *sec.Identity, datasetName string) (*Result, error) {
	dataset, ok := Lookup(datasetName)
	if !ok {
		return nil, validate.RequiredError("dataset",
			"Must be one of: "+strings.Join(DatasetNames(), ", "))
	}

	payload, err := service.reader.ReadCSV(context, dataset)
	if err != nil {
		return nil, err
	}

	artifactID := uuid.New()
	if err := service.cache.Put(context, artifactID, payload, ArtifactTTL); err != nil {
		return nil, apperr.StoreUnavailable(err)
	}

	token, err := service.signer.Sign(artifactID, actor.UserID, ArtifactTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.Info("export_created",
		slog.String("dataset", dataset.Name),
		slog.String("actor_id", actor.UserID),
		slog.Int("size_bytes", len(payload)),
	)

	return &Result{
		Token:     token,
		Dataset:   dataset.Name,
		SizeBytes: len(payload),
	}, nil
}

/*
RunScheduled executes an export on behalf of the task scheduler.

Description: Scheduled runs have no requesting admin and no one to hand a
token to; the artifact is rendered and cached under the dataset name so the
most recent scheduled snapshot is always addressable.

Parameters:
  - context: context.Context
  - datasetName: string

Returns:
  - err: Unknown dataset, StoreUnavailable, or render failures
*/
func (service *Service) RunScheduled(context context.Context, datasetName string) error {
	dataset, ok := Lookup(datasetName)
	if !ok {
		return validate.RequiredError("dataset",
			"Must be one of: "+strings.Join(DatasetNames(), ", "))
	}

	payload, err := service.reader.ReadCSV(context, dataset)
	if err != nil {
		return err
	}

	if err := service.cache.Put(context, "scheduled:"+dataset.Name, payload, ArtifactTTL); err != nil {
		return apperr.StoreUnavailable(err)
	}

	service.logger.Info("export_scheduled_run",
		slog.String("dataset", dataset.Name),
		slog.Int("size_bytes", len(payload)),
	)
	return nil
}

/*
Download verifies a signed token and returns the cached artifact bytes.

Description: The token is the sole credential — no session is required, so
the browser's download manager can fetch the link directly. An invalid or
expired token and a token whose artifact has aged out of the cache both fail
with 401/404 shapes that reveal nothing about other artifacts.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - []byte: CSV payload
  - err: Unauthorized (bad/expired token) or NotFound (artifact gone)
*/
func (service *Service) Download(context context.Context, token string) ([]byte, error) {
	claims, err := service.signer.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired download token")
	}

	payload, err := service.cache.Get(context, claims.ArtifactID)
	if err != nil {
		if errors.Is(err, ErrArtifactExpired) {
			return nil, apperr.NotFound("Export artifact")
		}
		return nil, apperr.StoreUnavailable(err)
	}

	return payload, nil
}
