// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Opsboard HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire domain services, guard, and HTTP handlers.
//  7. Start the task scheduler.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/opsboard/internal/api"
	"github.com/taibuivan/opsboard/internal/core/export"
	"github.com/taibuivan/opsboard/internal/core/report"
	"github.com/taibuivan/opsboard/internal/core/task"
	"github.com/taibuivan/opsboard/internal/platform/config"
	"github.com/taibuivan/opsboard/internal/platform/constants"
	"github.com/taibuivan/opsboard/internal/platform/migration"
	pgstore "github.com/taibuivan/opsboard/internal/platform/postgres"
	redisstore "github.com/taibuivan/opsboard/internal/platform/redis"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/internal/users/admin"
	"github.com/taibuivan/opsboard/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "opsboard"))
	slog.SetDefault(log)

	log.Info("[Opsboard] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "opsboard"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Link Signer ────────────────────────────────────────────────────
	// Signs export download tokens only. Sessions are opaque store-backed
	// tokens and never pass through here.
	linkSigner, err := sec.NewLinkSigner(cfg.SessionSecret, constants.AuthIssuer)
	must(log, err, "initialize link signer")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	throttleRepository := auth.NewThrottleRepository(rdb)
	authService := auth.NewService(userRepository, sessionRepository, throttleRepository, cfg.SessionTTL(), log)
	authGuard := auth.NewGuard(authService)
	authHandler := auth.NewHandler(authService)

	adminService := admin.NewService(admin.NewPostgresRepository(pool), log)
	adminHandler := admin.NewHandler(adminService)

	reportService := report.NewService(report.NewPostgresRepository(pool), log)
	reportHandler := report.NewHandler(reportService)

	exportService := export.NewService(
		export.NewPostgresReader(pool),
		export.NewArtifactCache(rdb),
		linkSigner,
		log,
	)
	exportHandler := export.NewHandler(exportService)

	taskRepository := task.NewPostgresRepository(pool)
	taskService := task.NewService(taskRepository, log)
	taskHandler := task.NewHandler(taskService)

	// ── 9. Task Scheduler ─────────────────────────────────────────────────
	scheduler := task.NewScheduler(taskRepository, authService, exportService, log)
	must(log, scheduler.Start(startupCtx), "start task scheduler")
	defer scheduler.Stop()

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	// startupCtx carries a 30s deadline; the server's background middleware
	// work (rate-limit cleanup) needs the process lifetime instead.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Admin:     adminHandler,
		Report:    reportHandler,
		Export:    exportHandler,
		Task:      taskHandler,
	}

	server := api.NewServer(appCtx, cfg, log, authGuard, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
