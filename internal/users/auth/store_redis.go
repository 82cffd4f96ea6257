// Copyright (c) 2026 Revora. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/revora-app/revora/internal/platform/constants"
)

// RedisThrottle implements [Throttle] on a shared Redis instance, so the
// cooldown holds across API replicas.
//
// Each reservation is a SET NX with the cooldown as TTL. A losing attempt
// reads the key's remaining TTL to report an accurate Retry-After.
type RedisThrottle struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewRedisThrottle constructs a throttle with the given cooldown window.
func NewRedisThrottle(client *redis.Client, cooldown time.Duration) *RedisThrottle {
	return &RedisThrottle{
		client:   client,
		cooldown: cooldown,
	}
}

// Reserve attempts to claim a delivery slot for the user.
func (throttle *RedisThrottle) Reserve(context context.Context, userID string) (int, bool, error) {
	key := constants.RedisPrefixSignupThrottle + userID

	acquired, err := throttle.client.SetNX(context, key, 1, throttle.cooldown).Result()
	if err != nil {
		return 0, false, fmt.Errorf("auth_throttle_reserve_failed: %w", err)
	}
	if acquired {
		return 0, true, nil
	}

	remaining, err := throttle.client.TTL(context, key).Result()
	if err != nil || remaining < 0 {
		remaining = throttle.cooldown
	}

	return int(math.Ceil(remaining.Seconds())), false, nil
}
