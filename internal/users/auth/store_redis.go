// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/opsboard/internal/platform/constants"
)

// RedisThrottleRepository implements ThrottleRepository using Redis counters.
//
// Counters are keyed by login identifier and expire on their own; Redis is
// the right home for this data because it is volatile by nature and must not
// survive longer than the throttle window.
type RedisThrottleRepository struct {
	client *redis.Client
}

// throttleIncrScript increments the counter and attaches the TTL in one
// atomic server-side step. A separate INCR + EXPIRE pair could be torn
// between the two commands, leaving a counter with no expiry — an identifier
// throttled that way would stay locked out forever.
var throttleIncrScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count`)

// NewThrottleRepository creates a new Redis-backed ThrottleRepository.
func NewThrottleRepository(client *redis.Client) *RedisThrottleRepository {
	return &RedisThrottleRepository{client: client}
}

/*
Incr increments the failed-login counter for a key.

Description: The TTL is attached when the counter is first created, giving a
sliding window that resets LoginThrottleTTL after the first failure.

Parameters:
  - context: context.Context
  - key: string
  - ttl: time.Duration

Returns:
  - int64: Counter value after the increment
  - error: Execution errors
*/
func (repository *RedisThrottleRepository) Incr(context context.Context, key string, ttl time.Duration) (int64, error) {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginThrottle + key

	// Increment and attach the window TTL atomically
	count, err := throttleIncrScript.Run(
		context,
		repository.client,
		[]string{redisKey},
		ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis_throttle_incr_failed: %w", err)
	}

	return count, nil
}

/*
Reset clears the failed-login counter after a successful authentication.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisThrottleRepository) Reset(context context.Context, key string) error {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginThrottle + key

	// Delete the counter
	if err := repository.client.Del(context, redisKey).Err(); err != nil {
		return fmt.Errorf("redis_throttle_reset_failed: %w", err)
	}

	return nil
}
