// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package export

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/opsboard/internal/platform/request"
	"github.com/taibuivan/opsboard/internal/platform/respond"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/platform/validate"
)

// Handler implements the export HTTP endpoints.
type Handler struct {
	exportService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{exportService: service}
}

// Routes returns a [chi.Router] with the export endpoints.
//
// Creation is admin-gated by middleware, which runs before the handler —
// and therefore before any dataset query. Download is token-gated instead
// of session-gated.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/download", handler.download)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.runExport)
	})

	return router
}

type runExportRequest struct {
	Dataset string `json:"dataset"`
}

/*
RunExport renders a dataset to CSV and returns a signed download token.

POST /api/v1/exports

Request:
  - Body: runExportRequest (Dataset)

Response:
  - 201: Result: Download token and payload size
  - 400: ErrValidation: Unknown dataset
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) runExport(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input runExportRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.exportService.Run(request.Context(), identity, input.Dataset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

/*
Download streams a previously rendered export.

GET /api/v1/exports/download?token=

Response:
  - 200: text/csv attachment
  - 401: ErrUnauthorized: Invalid or expired token
  - 404: ErrNotFound: Artifact aged out of the cache
*/
func (handler *Handler) download(writer http.ResponseWriter, request *http.Request) {
	token := request.URL.Query().Get("token")
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing download token"))
		return
	}

	payload, err := handler.exportService.Download(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(payload)
}
