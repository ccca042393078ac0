// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/taskora/taskora/internal/platform/constants"
)

// RedisLoginThrottle implements [LoginThrottle] on Redis counters.
//
// Each email+IP pair gets an INCR counter with a sliding-ish window: the
// TTL is set when the counter is created and refreshed on every failure,
// so the window closes only after the attacker goes quiet.
type RedisLoginThrottle struct {
	client *redis.Client
}

// NewLoginThrottle creates a Redis-backed login failure counter.
func NewLoginThrottle(client *redis.Client) *RedisLoginThrottle {
	return &RedisLoginThrottle{client: client}
}

/*
RecordFailure increments the failure counter and refreshes its window.

Parameters:
  - context: context.Context
  - key: string (email+IP pair)

Returns:
  - error: Redis command failures
*/
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, key string) error {
	redisKey := constants.RedisPrefixLoginThrottle + key

	pipeline := throttle.client.TxPipeline()
	pipeline.Incr(context, redisKey)
	pipeline.Expire(context, redisKey, constants.LoginThrottleWindow)
	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_login_throttle_incr_failed: %w", err)
	}

	return nil
}

/*
IsThrottled reports whether the key has burned through its failure budget.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - bool: true once the counter passes the configured maximum
  - error: Redis command failures
*/
func (throttle *RedisLoginThrottle) IsThrottled(context context.Context, key string) (bool, error) {
	count, err := throttle.client.Get(context, constants.RedisPrefixLoginThrottle+key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_login_throttle_get_failed: %w", err)
	}

	return count >= constants.LoginThrottleMaxFailures, nil
}

/*
Reset clears the failure counter after a successful login.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Redis command failures
*/
func (throttle *RedisLoginThrottle) Reset(context context.Context, key string) error {
	if err := throttle.client.Del(context, constants.RedisPrefixLoginThrottle+key).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_reset_failed: %w", err)
	}

	return nil
}
