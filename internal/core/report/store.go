// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import "context"

// Repository defines the data access contract for report definitions.
type Repository interface {

	/*
		ListReports returns a page of reports plus the unpaginated total.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Report: Page of reports, newest first
		  - int: Total matching reports
		  - error: StoreUnavailable or query failures
	*/
	ListReports(context context.Context, filter Filter, limit, offset int) ([]*Report, int, error)

	/*
		GetBySlug returns the report with the given slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Report: Hydrated report
		  - error: NotFound or StoreUnavailable
	*/
	GetBySlug(context context.Context, slug string) (*Report, error)

	/*
		Create persists a new report. The slug's unique constraint is the
		source of truth under concurrent creation.

		Parameters:
		  - context: context.Context
		  - report: *Report

		Returns:
		  - error: Conflict (duplicate slug) or persistence failures
	*/
	Create(context context.Context, report *Report) error

	/*
		Delete removes a report by slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - error: NotFound, StoreUnavailable, or execution failures
	*/
	Delete(context context.Context, slug string) error
}
