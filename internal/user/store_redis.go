// Copyright (c) 2026 Conduit. All rights reserved.

package user

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/conduithq/conduit/internal/platform/constants"
)

// RedisLoginThrottle implements [LoginThrottle] using Redis.
//
// # Why Redis?
//
// The counter must be shared: a per-process limiter would multiply the
// budget by the number of API replicas behind the load balancer.
type RedisLoginThrottle struct {
	client *redis.Client
}

// NewRedisLoginThrottle creates a Redis-backed login throttle.
func NewRedisLoginThrottle(client *redis.Client) *RedisLoginThrottle {
	return &RedisLoginThrottle{client: client}
}

/*
Allow records one login attempt for clientKey and reports whether it is
within the budget of [constants.LoginThrottleMaxAttempts] per
[constants.LoginThrottleWindow].

Description: INCR + EXPIRE in one pipeline. The expiry is only set when
the key is first created, so the window is fixed from the first attempt
rather than sliding with every retry.

Parameters:
  - context: context.Context
  - clientKey: string (normally the client IP address)

Returns:
  - bool: true if the attempt may proceed
  - error: Connectivity or execution failures
*/
func (throttle *RedisLoginThrottle) Allow(context context.Context, clientKey string) (bool, error) {
	key := fmt.Sprintf("%s%s", constants.RedisPrefixLoginAttempts, clientKey)

	pipe := throttle.client.TxPipeline()
	countCmd := pipe.Incr(context, key)
	pipe.ExpireNX(context, key, constants.LoginThrottleWindow)

	if _, err := pipe.Exec(context); err != nil {
		return false, fmt.Errorf("redis_login_throttle_incr_failed: %w", err)
	}

	return countCmd.Val() <= constants.LoginThrottleMaxAttempts, nil
}
