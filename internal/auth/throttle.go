package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed login attempts per username in Redis. It is an
// operational guard rail, not part of the credential check itself: when Redis
// is unavailable the throttle fails open.
type LoginThrottle struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLoginThrottle constructs a throttle allowing limit failures per window.
func NewLoginThrottle(client *redis.Client, limit int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, limit: int64(limit), window: window}
}

// Allow reports whether another attempt for username may proceed.
func (t *LoginThrottle) Allow(ctx context.Context, username string) bool {
	if t == nil || t.client == nil {
		return true
	}
	count, err := t.client.Get(ctx, t.key(username)).Int64()
	if err != nil {
		return true
	}
	return count < t.limit
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	if t == nil || t.client == nil {
		return
	}
	key := t.key(username)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		t.client.Expire(ctx, key, t.window)
	}
}

// Reset clears the failure counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	if t == nil || t.client == nil {
		return
	}
	t.client.Del(ctx, t.key(username))
}

func (t *LoginThrottle) key(username string) string {
	return "login_attempts:" + strings.ToLower(username)
}
