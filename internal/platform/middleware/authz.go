// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package middleware provides the HTTP middleware chain for the Opsboard API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/constants"
	"github.com/taibuivan/opsboard/internal/platform/ctxutil"
	"github.com/taibuivan/opsboard/internal/platform/respond"
	"github.com/taibuivan/opsboard/internal/platform/sec"
)

// SessionResolver defines the interface needed to resolve session tokens in middleware.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the `auth`
// service implementation, allowing us to easily inject fakes during unit
// testing. The resolver hits the session store on EVERY request: identity and
// role are never cached in the token, so revocation and role changes take
// effect immediately.
type SessionResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*sec.Identity, error)
}

// Authenticate extracts the session cookie and resolves it to an identity.
//
// # Flow
//  1. Check for the session cookie.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, resolve the opaque token via [SessionResolver].
//  4. An expired or revoked token also proceeds as anonymous — RequireAuth
//     decides whether that matters. A store outage aborts with 503 instead:
//     ambiguous state must fail closed, never grant access.
//  5. Inject [*sec.Identity] into the request context for downstream use.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.SessionCookieName)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			identity, err := resolver.ResolveIdentity(request.Context(), cookie.Value)
			if err != nil {
				// Store outages are not "invalid session".
				var appError *apperr.AppError
				if errors.As(err, &appError) && appError.Code == "STORE_UNAVAILABLE" {
					respond.Error(writer, request, err)
					return
				}

				// Expired, revoked, or unknown token: continue anonymously.
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.Identity] exists in context (implies AuthN).
//  2. Check if the user's role meets or exceeds the required target role using [sec.UserRole.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
//
// The 401/403 split is deliberate: 401 tells the client to log in, 403 tells
// an authenticated client it lacks permission. Only the latter may be specific,
// since it does not leak whether an account exists.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
