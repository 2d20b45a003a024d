// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/opsboard/internal/core/export"
	"github.com/taibuivan/opsboard/internal/core/report"
	"github.com/taibuivan/opsboard/internal/core/task"
	"github.com/taibuivan/opsboard/internal/platform/config"
	"github.com/taibuivan/opsboard/internal/platform/constants"
	"github.com/taibuivan/opsboard/internal/platform/middleware"
	"github.com/taibuivan/opsboard/internal/users/admin"
	"github.com/taibuivan/opsboard/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session lifecycle (register, login, logout, me).
	Auth *auth.Handler

	// Admin handles operator account management.
	Admin *admin.Handler

	// Report manages saved report definitions.
	Report *report.Handler

	// Export runs dataset exports and serves signed downloads.
	Export *export.Handler

	// Task manages scheduled maintenance jobs.
	Task *task.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Authentication runs for every request: the session cookie (if present) is
// resolved against the store, and the identity lands in the request context.
// Per-route RequireAuth/RequireRole guards then decide what that identity is
// allowed to reach.
//
// The context must live as long as the server itself: it governs background
// middleware work such as the rate limiter's cleanup goroutine.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, resolver middleware.SessionResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(resolver))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/admin", h.Admin.Routes())
		api.Mount("/reports", h.Report.Routes())
		api.Mount("/exports", h.Export.Routes())
		api.Mount("/tasks", h.Task.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
