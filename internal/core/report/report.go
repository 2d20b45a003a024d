// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package report manages saved report definitions for the dashboard.

A report names a dataset, the columns to show, and a URL slug. Reports are
definitions only; the export package turns a dataset into actual rows.

# Architecture

Reports are owned: any authenticated operator may create and read them, but
deletion is restricted to the owner or an admin.
*/
package report

import "time"

// Report is a saved dashboard report definition.
type Report struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Dataset     string    `json:"dataset"`
	Columns     []string  `json:"columns"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows report listings.
type Filter struct {
	// Query matches against name (substring, case-insensitive).
	Query string
	// Dataset, when set, restricts results to reports over this dataset.
	Dataset string
}

// Field names used in validation errors.
const (
	FieldName    = "name"
	FieldSlug    = "slug"
	FieldDataset = "dataset"
	FieldColumns = "columns"
)
