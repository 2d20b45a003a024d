// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/opsboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/opsboard/internal/platform/request"
	"github.com/taibuivan/opsboard/internal/platform/respond"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/platform/validate"
	"github.com/taibuivan/opsboard/pkg/pagination"
)

// Handler implements the administrative HTTP endpoints.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns a [chi.Router] with the admin endpoints.
//
// Every route requires the admin role. Authorization is evaluated per
// request against the store, so a demoted admin loses access on their next
// call without logging out.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/users", handler.listUsers)
	router.Patch("/users/{id}/role", handler.updateRole)
	router.Patch("/users/{id}/status", handler.setActive)

	return router
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

/*
ListUsers returns the paginated account directory.

GET /api/v1/admin/users?page=&limit=&q=&role=

Response:
  - 200: []auth.User with pagination metadata
  - 403: ErrForbidden: Caller is not an admin
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
		Role:  sec.UserRole(request.URL.Query().Get("role")),
	}

	if filter.Role != "" && !filter.Role.IsValid() {
		respond.Error(writer, request, validate.RequiredError("role", "Unknown role filter"))
		return
	}

	users, total, err := handler.adminService.ListUsers(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
UpdateRole changes a user's role.

PATCH /api/v1/admin/users/{id}/role

Request:
  - Body: updateRoleRequest (Role)

Response:
  - 204: Role updated
  - 400: ErrValidation: Unknown role value
  - 404: ErrNotFound: No such user
  - 422: Unprocessable: Admin targeting their own account
*/
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := requestutil.Param(request, "id")

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.adminService.UpdateRole(request.Context(), identity.UserID, userID, sec.UserRole(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
SetActive activates or deactivates a user account.

PATCH /api/v1/admin/users/{id}/status

Request:
  - Body: setActiveRequest (Active)

Response:
  - 204: Activation flag updated
  - 404: ErrNotFound: No such user
  - 422: Unprocessable: Admin targeting their own account
*/
func (handler *Handler) setActive(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := requestutil.Param(request, "id")

	var input setActiveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.adminService.SetActive(request.Context(), identity.UserID, userID, input.Active)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
