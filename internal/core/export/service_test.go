// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package export

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
)

type fakeReader struct {
	payload []byte
	err     error
	calls   int
}

func (reader *fakeReader) ReadCSV(_ context.Context, _ Dataset) ([]byte, error) {
	reader.calls++
	if reader.err != nil {
		return nil, reader.err
	}
	return reader.payload, nil
}

type memArtifactCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemArtifactCache() *memArtifactCache {
	return &memArtifactCache{entries: make(map[string][]byte)}
}

func (cache *memArtifactCache) Put(_ context.Context, artifactID string, payload []byte, _ time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[artifactID] = payload
	return nil
}

func (cache *memArtifactCache) Get(_ context.Context, artifactID string) ([]byte, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	payload, ok := cache.entries[artifactID]
	if !ok {
		return nil, ErrArtifactExpired
	}
	return payload, nil
}

func (cache *memArtifactCache) evictAll() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries = make(map[string][]byte)
}

func newExportFixture(t *testing.T, reader *fakeReader) (*Service, *memArtifactCache) {
	t.Helper()

	signer, err := sec.NewLinkSigner("0123456789abcdef0123456789abcdef", "opsboard.app")
	require.NoError(t, err)

	cache := newMemArtifactCache()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(reader, cache, signer, logger), cache
}

var testAdmin = &sec.Identity{UserID: "admin-1", Username: "root", Role: sec.RoleAdmin}

/*
TestRun_UnknownDataset verifies the whitelist is checked before any read.
*/
func TestRun_UnknownDataset(t *testing.T) {
	reader := &fakeReader{payload: []byte("id\n1\n")}
	service, _ := newExportFixture(t, reader)

	_, err := service.Run(context.Background(), testAdmin, "secrets")
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)

	// The reader must never have been touched.
	assert.Zero(t, reader.calls)
}

/*
TestRun_Download verifies the full flow: run, then redeem the token.
*/
func TestRun_Download(t *testing.T) {
	payload := []byte("id,username\n1,operator\n")
	service, _ := newExportFixture(t, &fakeReader{payload: payload})

	result, err := service.Run(context.Background(), testAdmin, "users")
	require.NoError(t, err)
	assert.Equal(t, "users", result.Dataset)
	assert.Equal(t, len(payload), result.SizeBytes)
	assert.NotEmpty(t, result.Token)

	downloaded, err := service.Download(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, payload, downloaded)
}

/*
TestDownload_BadToken verifies garbage and forged tokens get a 401 shape.
*/
func TestDownload_BadToken(t *testing.T) {
	service, _ := newExportFixture(t, &fakeReader{payload: []byte("x\n")})

	_, err := service.Download(context.Background(), "not-a-token")
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

/*
TestDownload_ArtifactEvicted verifies a valid token whose artifact has
aged out of the cache yields 404, not 401.
*/
func TestDownload_ArtifactEvicted(t *testing.T) {
	service, cache := newExportFixture(t, &fakeReader{payload: []byte("x\n")})

	result, err := service.Run(context.Background(), testAdmin, "users")
	require.NoError(t, err)

	cache.evictAll()

	_, err = service.Download(context.Background(), result.Token)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

/*
TestRunScheduled verifies scheduled runs cache under the dataset name.
*/
func TestRunScheduled(t *testing.T) {
	payload := []byte("id\n1\n")
	service, cache := newExportFixture(t, &fakeReader{payload: payload})

	require.NoError(t, service.RunScheduled(context.Background(), "sessions"))

	stored, err := cache.Get(context.Background(), "scheduled:sessions")
	require.NoError(t, err)
	assert.Equal(t, payload, stored)

	assert.Error(t, service.RunScheduled(context.Background(), "nope"))
}

/*
TestLookup verifies the whitelist surface.
*/
func TestLookup(t *testing.T) {
	dataset, ok := Lookup("users")
	assert.True(t, ok)
	assert.Equal(t, "users", dataset.Name)
	assert.NotEmpty(t, dataset.Columns)
	assert.NotEmpty(t, dataset.query)

	_, ok = Lookup("users; DROP TABLE users.account")
	assert.False(t, ok)

	assert.Equal(t, []string{"reports", "sessions", "users"}, DatasetNames())
}

/*
TestFormatValue covers the CSV cell rendering rules.
*/
func TestFormatValue(t *testing.T) {
	timestamp := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, ""},
		{"string", "operator", "operator"},
		{"time", timestamp, "2026-08-01T12:00:00Z"},
		{"bytes", []byte("raw"), "raw"},
		{"bool", true, "true"},
		{"int", int64(42), "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatValue(tt.input))
		})
	}
}
