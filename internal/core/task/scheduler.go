// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SessionPurger deletes expired session rows. Implemented by the auth service.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// DatasetExporter renders a dataset snapshot. Implemented by the export service.
type DatasetExporter interface {
	RunScheduled(ctx context.Context, dataset string) error
}

// Scheduler runs enabled task definitions on their cron schedules.
//
// # Lifecycle
//
// Start loads enabled tasks once and registers them; a definition change via
// the API takes effect after a restart. Job failures are logged and the
// schedule keeps running: a broken export must not stop session purging.
type Scheduler struct {
	repo     Repository
	purger   SessionPurger
	exporter DatasetExporter
	logger   *slog.Logger
	runner   *cron.Cron

	// jobTimeout bounds each job run so a hung query cannot pile up
	// overlapping executions forever.
	jobTimeout time.Duration
}

// NewScheduler constructs a Scheduler with its job dependencies.
func NewScheduler(repo Repository, purger SessionPurger, exporter DatasetExporter, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		repo:       repo,
		purger:     purger,
		exporter:   exporter,
		logger:     logger,
		runner:     cron.New(),
		jobTimeout: 5 * time.Minute,
	}
}

// Start loads enabled tasks and begins running them.
func (scheduler *Scheduler) Start(ctx context.Context) error {
	tasks, err := scheduler.repo.ListEnabled(ctx)
	if err != nil {
		return err
	}

	for _, definition := range tasks {
		definition := definition
		_, err := scheduler.runner.AddFunc(definition.CronExpr, func() {
			scheduler.run(definition)
		})
		if err != nil {
			// Validation parses with the same parser, so this only fires for
			// rows written before that rule existed.
			scheduler.logger.Error("task_schedule_rejected",
				slog.String("task_id", definition.ID),
				slog.String("cron_expr", definition.CronExpr),
				slog.Any("error", err),
			)
			continue
		}

		scheduler.logger.Info("task_scheduled",
			slog.String("task_id", definition.ID),
			slog.String("name", definition.Name),
			slog.String("cron_expr", definition.CronExpr),
		)
	}

	scheduler.runner.Start()
	return nil
}

// Stop halts the schedule and waits for running jobs to finish.
func (scheduler *Scheduler) Stop() {
	stopContext := scheduler.runner.Stop()
	<-stopContext.Done()
}

// run executes one task firing.
func (scheduler *Scheduler) run(definition *Task) {
	ctx, cancel := context.WithTimeout(context.Background(), scheduler.jobTimeout)
	defer cancel()

	startTime := time.Now()
	var err error

	switch definition.Kind {
	case KindPurgeSessions:
		var removed int64
		removed, err = scheduler.purger.PurgeExpiredSessions(ctx)
		if err == nil {
			scheduler.logger.Info("task_purge_completed",
				slog.String("task_id", definition.ID),
				slog.Int64("removed", removed),
			)
		}
	case KindExportDataset:
		err = scheduler.exporter.RunScheduled(ctx, definition.Dataset)
	default:
		scheduler.logger.Error("task_unknown_kind",
			slog.String("task_id", definition.ID),
			slog.String("kind", string(definition.Kind)),
		)
		return
	}

	if err != nil {
		scheduler.logger.Error("task_run_failed",
			slog.String("task_id", definition.ID),
			slog.String("kind", string(definition.Kind)),
			slog.Any("error", err),
		)
		return
	}

	if err := scheduler.repo.MarkRun(ctx, definition.ID, startTime); err != nil {
		scheduler.logger.Warn("task_mark_run_failed",
			slog.String("task_id", definition.ID),
			slog.Any("error", err),
		)
	}
}
