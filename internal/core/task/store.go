// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"time"
)

// Repository defines the data access contract for task definitions.
type Repository interface {

	/*
		ListTasks returns all task definitions, newest first.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Task: All tasks
		  - error: StoreUnavailable or query failures
	*/
	ListTasks(context context.Context) ([]*Task, error)

	/*
		ListEnabled returns only tasks the scheduler should run.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Task: Enabled tasks
		  - error: StoreUnavailable or query failures
	*/
	ListEnabled(context context.Context) ([]*Task, error)

	/*
		GetByID returns the task with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Task: Hydrated task
		  - error: NotFound or StoreUnavailable
	*/
	GetByID(context context.Context, id string) (*Task, error)

	/*
		Create persists a new task.

		Parameters:
		  - context: context.Context
		  - task: *Task

		Returns:
		  - error: Conflict (duplicate name) or persistence failures
	*/
	Create(context context.Context, task *Task) error

	/*
		Update rewrites a task's mutable fields (name, cron, kind, dataset,
		enabled).

		Parameters:
		  - context: context.Context
		  - task: *Task

		Returns:
		  - error: NotFound, Conflict, or execution failures
	*/
	Update(context context.Context, task *Task) error

	/*
		Delete removes a task by ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: NotFound, StoreUnavailable, or execution failures
	*/
	Delete(context context.Context, id string) error

	/*
		MarkRun records that a task fired.

		Parameters:
		  - context: context.Context
		  - id: string
		  - runTime: time.Time

		Returns:
		  - error: Execution failures
	*/
	MarkRun(context context.Context, id string, runTime time.Time) error
}
