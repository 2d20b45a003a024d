// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/opsboard/internal/platform/constants"
	"github.com/taibuivan/opsboard/internal/platform/middleware"
	requestutil "github.com/taibuivan/opsboard/internal/platform/request"
	"github.com/taibuivan/opsboard/internal/platform/respond"
	"github.com/taibuivan/opsboard/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler owns the session lifecycle entry points (Registration, Login,
// Logout) plus the authenticated self-profile endpoint. It is strictly a
// transport layer: cookies, status codes, and JSON shapes live here, while
// every decision lives in [Service].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and sets the session cookie.
//   - POST /logout   : Destroys the current session (idempotent, public).
//   - GET  /me       : Returns the authenticated user's profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints. Logout is deliberately public: a client holding an
	// already-expired cookie must still be able to clear it.
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database. New accounts always start as regular
users; promotion is a separate, admin-only operation.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, creates an opaque server-side session,
and injects the session token into a secure cookie. The token never appears
in the response body.

Request:
  - Body: loginRequest (Identifier, Password)

Response:
  - 200: User: Authenticated user profile
  - 401: ErrUnauthorized: Invalid credentials or deactivated account
  - 429: ErrRateLimited: Too many failed attempts for this identifier
  - 503: StoreUnavailable: Backing store unreachable
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldIdentifier, input.Identifier)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: input.Identifier,
		Password:   input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.Token,
		Path:     constants.SessionCookiePath,
		Expires:  session.ExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.OK(writer, map[string]any{
		FieldUser: session.User,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Destroys the server-side session (if the cookie carries one)
and clears the cookie from the client. Idempotent: logging out with an
expired, unknown, or missing token still succeeds.

Response:
  - 204: No Content: Session terminated
  - 503: StoreUnavailable: Session store unreachable
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.SessionCookieName)

	if err == nil && cookie != nil && cookie.Value != "" {
		if err := handler.authService.Logout(request.Context(), cookie.Value); err != nil {
			// The session may still exist server-side; do not clear the
			// cookie and pretend otherwise.
			respond.Error(writer, request, err)
			return
		}
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.NoContent(writer)
}

/*
Me returns the authenticated user's own profile.

GET /api/v1/auth/me

Description: Fetches the full account record for the session's owner. Role
and activation state reflect the store at request time, not at login time.

Response:
  - 200: User: Current user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.GetUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
