// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/opsboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/opsboard/internal/platform/request"
	"github.com/taibuivan/opsboard/internal/platform/respond"
	"github.com/taibuivan/opsboard/internal/platform/validate"
	"github.com/taibuivan/opsboard/pkg/pagination"
)

// Handler implements the report HTTP endpoints.
type Handler struct {
	reportService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{reportService: service}
}

// Routes returns a [chi.Router] with the report endpoints.
//
// All routes require authentication; deletion additionally checks ownership
// in the service layer.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listReports)
	router.Post("/", handler.createReport)
	router.Get("/{slug}", handler.getReport)
	router.Delete("/{slug}", handler.deleteReport)

	return router
}

type createReportRequest struct {
	Name        string   `json:"name"`
	Dataset     string   `json:"dataset"`
	Columns     []string `json:"columns"`
	Description string   `json:"description"`
}

/*
ListReports returns the paginated report catalog.

GET /api/v1/reports?page=&limit=&q=&dataset=

Response:
  - 200: []Report with pagination metadata
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listReports(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Query:   request.URL.Query().Get("q"),
		Dataset: request.URL.Query().Get("dataset"),
	}

	reports, total, err := handler.reportService.ListReports(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reports, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetReport returns a single report by slug.

GET /api/v1/reports/{slug}

Response:
  - 200: Report
  - 404: ErrNotFound: No such report
*/
func (handler *Handler) getReport(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.reportService.GetReport(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, item)
}

/*
CreateReport saves a new report definition owned by the caller.

POST /api/v1/reports

Request:
  - Body: createReportRequest (Name, Dataset, Columns, Description)

Response:
  - 201: Report: Created definition, slug included
  - 400: ErrValidation: Unknown dataset or column
  - 409: ErrConflict: Slug already taken
*/
func (handler *Handler) createReport(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReportRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	created, err := handler.reportService.CreateReport(request.Context(), identity, &Report{
		Name:        input.Name,
		Dataset:     input.Dataset,
		Columns:     input.Columns,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
DeleteReport removes a report definition.

DELETE /api/v1/reports/{slug}

Response:
  - 204: Report deleted
  - 403: ErrForbidden: Caller is neither owner nor admin
  - 404: ErrNotFound: No such report
*/
func (handler *Handler) deleteReport(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.reportService.DeleteReport(request.Context(), identity, requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
