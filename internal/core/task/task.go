// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package task implements scheduled maintenance jobs for the dashboard.

Tasks are persisted records pairing a cron expression with a job kind. The
[Scheduler] loads enabled tasks at startup and runs them in-process. There
is exactly one scheduler per deployment; this is a single-node system.
*/
package task

import "time"

// Kind identifies what a task does when it fires.
type Kind string

const (
	// KindPurgeSessions deletes expired session rows.
	KindPurgeSessions Kind = "purge_sessions"
	// KindExportDataset renders a dataset snapshot into the artifact cache.
	KindExportDataset Kind = "export_dataset"
)

// IsValid reports whether the kind is one of the closed set.
func (k Kind) IsValid() bool {
	switch k {
	case KindPurgeSessions, KindExportDataset:
		return true
	default:
		return false
	}
}

// Task is a persisted scheduled job definition.
type Task struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	CronExpr string `json:"cron_expr"`
	Kind     Kind   `json:"kind"`

	// Dataset names the export target. Only meaningful for KindExportDataset.
	Dataset string `json:"dataset,omitempty"`

	Enabled   bool       `json:"enabled"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Field names used in validation errors.
const (
	FieldTaskName = "name"
	FieldCronExpr = "cron_expr"
	FieldKind     = "kind"
	FieldDataset  = "dataset"
)
