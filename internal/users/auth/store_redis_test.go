// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/opsboard/internal/platform/constants"
)

func newThrottleFixture(t *testing.T) (*RedisThrottleRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewThrottleRepository(client), server
}

/*
TestThrottle_IncrAttachesTTL verifies every counter carries its window TTL
from the very first increment: a counter without an expiry would throttle
its identifier forever.
*/
func TestThrottle_IncrAttachesTTL(t *testing.T) {
	repository, server := newThrottleFixture(t)
	redisKey := constants.RedisPrefixLoginThrottle + "operator"

	count, err := repository.Incr(context.Background(), "operator", LoginThrottleTTL)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, LoginThrottleTTL, server.TTL(redisKey))

	// Subsequent increments count up without extending the window.
	count, err = repository.Incr(context.Background(), "operator", LoginThrottleTTL)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, LoginThrottleTTL, server.TTL(redisKey))
}

/*
TestThrottle_WindowExpires verifies the counter resets once the window
elapses, re-attaching a fresh TTL on the next failure.
*/
func TestThrottle_WindowExpires(t *testing.T) {
	repository, server := newThrottleFixture(t)
	redisKey := constants.RedisPrefixLoginThrottle + "operator"

	_, err := repository.Incr(context.Background(), "operator", LoginThrottleTTL)
	require.NoError(t, err)
	_, err = repository.Incr(context.Background(), "operator", LoginThrottleTTL)
	require.NoError(t, err)

	server.FastForward(LoginThrottleTTL + time.Second)

	count, err := repository.Incr(context.Background(), "operator", LoginThrottleTTL)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, LoginThrottleTTL, server.TTL(redisKey))
}

/*
TestThrottle_Reset verifies a successful login clears the counter entirely.
*/
func TestThrottle_Reset(t *testing.T) {
	repository, server := newThrottleFixture(t)
	redisKey := constants.RedisPrefixLoginThrottle + "operator"

	for i := 0; i < 3; i++ {
		_, err := repository.Incr(context.Background(), "operator", LoginThrottleTTL)
		require.NoError(t, err)
	}
	require.True(t, server.Exists(redisKey))

	require.NoError(t, repository.Reset(context.Background(), "operator"))
	assert.False(t, server.Exists(redisKey))

	count, err := repository.Incr(context.Background(), "operator", LoginThrottleTTL)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
