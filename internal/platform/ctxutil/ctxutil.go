// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/opsboard/internal/platform/ctxkey"
	"github.com/taibuivan/opsboard/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithIdentity returns a new context with the authenticated principal attached.
func WithIdentity(ctx context.Context, identity *sec.Identity) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, identity)
}

// GetIdentity retrieves the [*sec.Identity] from the [context.Context].
// Returns nil for anonymous requests.
func GetIdentity(ctx context.Context) *sec.Identity {
	identity, ok := ctx.Value(ctxkey.KeyUser).(*sec.Identity)
	if !ok {
		return nil
	}
	return identity
}
