// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/opsboard/internal/platform/constants"
)

// ArtifactTTL bounds how long a rendered export stays downloadable.
//
// Artifacts and their download tokens expire together; the cache TTL is the
// backstop in case a token is never redeemed.
const ArtifactTTL = 15 * time.Minute

// ErrArtifactExpired is returned when a download arrives after the cached
// bytes are gone.
var ErrArtifactExpired = errors.New("export: artifact expired or not found")

// ArtifactCache stores rendered export payloads between creation and download.
type ArtifactCache interface {

	/*
		Put stores an artifact's bytes under its id with the given TTL.

		Parameters:
		  - context: context.Context
		  - artifactID: string
		  - payload: []byte
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Put(context context.Context, artifactID string, payload []byte, ttl time.Duration) error

	/*
		Get returns an artifact's bytes.

		Parameters:
		  - context: context.Context
		  - artifactID: string

		Returns:
		  - []byte: The cached payload
		  - error: ErrArtifactExpired if missing, otherwise storage failures
	*/
	Get(context context.Context, artifactID string) ([]byte, error)
}

// RedisArtifactCache implements ArtifactCache on Redis.
//
// Redis fits because artifacts are bounded, short-lived, and safe to lose:
// an expired artifact just means the admin re-runs the export.
type RedisArtifactCache struct {
	client *redis.Client
}

// NewArtifactCache creates a Redis-backed ArtifactCache.
func NewArtifactCache(client *redis.Client) *RedisArtifactCache {
	return &RedisArtifactCache{client: client}
}

func (cache *RedisArtifactCache) Put(context context.Context, artifactID string, payload []byte, ttl time.Duration) error {
	key := constants.RedisPrefixExportArtifact + artifactID
	if err := cache.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_artifact_put_failed: %w", err)
	}
	return nil
}

func (cache *RedisArtifactCache) Get(context context.Context, artifactID string) ([]byte, error) {
	key := constants.RedisPrefixExportArtifact + artifactID

	payload, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrArtifactExpired
		}
		return nil, fmt.Errorf("redis_artifact_get_failed: %w", err)
	}

	return payload, nil
}
