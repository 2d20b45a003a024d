// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/opsboard/internal/platform/middleware"
)

/*
TestRateLimit_CleanupBoundToContext verifies the cleanup goroutine lives
exactly as long as the supplied context. The server must therefore be
constructed with a process-lifetime context: a context that ends after
startup would silently stop pruning the per-IP map.
*/
func TestRateLimit_CleanupBoundToContext(t *testing.T) {
	baseline := runtime.NumGoroutine()

	lifetime, cancel := context.WithCancel(context.Background())
	limiter := middleware.RateLimit(lifetime)

	// The cleanup goroutine is running while the context is live.
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() > baseline
	}, time.Second, 10*time.Millisecond)

	cancel()

	// And it exits as soon as the context ends.
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, time.Second, 10*time.Millisecond)

	// The middleware itself still serves requests after cancellation; only
	// pruning is tied to the context.
	handler := limiter(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
