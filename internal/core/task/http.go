// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/opsboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/opsboard/internal/platform/request"
	"github.com/taibuivan/opsboard/internal/platform/respond"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/platform/validate"
)

// Handler implements the task HTTP endpoints.
type Handler struct {
	taskService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{taskService: service}
}

// Routes returns a [chi.Router] with the task endpoints. Admin only.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/", handler.listTasks)
	router.Post("/", handler.createTask)
	router.Get("/{id}", handler.getTask)
	router.Patch("/{id}", handler.updateTask)
	router.Delete("/{id}", handler.deleteTask)

	return router
}

type taskRequest struct {
	Name     string `json:"name"`
	CronExpr string `json:"cron_expr"`
	Kind     string `json:"kind"`
	Dataset  string `json:"dataset"`
	Enabled  bool   `json:"enabled"`
}

/*
ListTasks returns every task definition.

GET /api/v1/tasks

Response:
  - 200: []Task
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) listTasks(writer http.ResponseWriter, request *http.Request) {
	tasks, err := handler.taskService.ListTasks(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tasks)
}

/*
GetTask returns a single task definition.

GET /api/v1/tasks/{id}

Response:
  - 200: Task
  - 404: ErrNotFound: No such task
*/
func (handler *Handler) getTask(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.taskService.GetTask(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, item)
}

/*
CreateTask saves a new scheduled task definition.

POST /api/v1/tasks

Request:
  - Body: taskRequest (Name, CronExpr, Kind, Dataset, Enabled)

Response:
  - 201: Task
  - 400: ErrValidation: Bad cron expression, kind, or dataset
  - 409: ErrConflict: Name already taken
*/
func (handler *Handler) createTask(writer http.ResponseWriter, request *http.Request) {
	var input taskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.taskService.CreateTask(request.Context(), &Task{
		Name:     input.Name,
		CronExpr: input.CronExpr,
		Kind:     Kind(input.Kind),
		Dataset:  input.Dataset,
		Enabled:  input.Enabled,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
UpdateTask rewrites a task definition. Takes effect after restart.

PATCH /api/v1/tasks/{id}

Request:
  - Body: taskRequest

Response:
  - 200: Task: Updated definition
  - 400: ErrValidation: Bad cron expression, kind, or dataset
  - 404: ErrNotFound: No such task
*/
func (handler *Handler) updateTask(writer http.ResponseWriter, request *http.Request) {
	var input taskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.taskService.UpdateTask(request.Context(), requestutil.Param(request, "id"), &Task{
		Name:     input.Name,
		CronExpr: input.CronExpr,
		Kind:     Kind(input.Kind),
		Dataset:  input.Dataset,
		Enabled:  input.Enabled,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DeleteTask removes a task definition.

DELETE /api/v1/tasks/{id}

Response:
  - 204: Task deleted
  - 404: ErrNotFound: No such task
*/
func (handler *Handler) deleteTask(writer http.ResponseWriter, request *http.Request) {
	err := handler.taskService.DeleteTask(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
