package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ActionRegister = "register"
	ActionLogin    = "login"
)

// Limiter grants at most one attempt per window for each (subject, action).
// A nil redis client disables limiting.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(subject, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, subject)
}

// Allow reports whether the attempt may proceed and starts a new window
// when it does.
func (l *Limiter) Allow(ctx context.Context, subject, action string, window time.Duration) (bool, error) {
	if l == nil || l.rdb == nil || window <= 0 {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(subject, action), "locked", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// TTL returns how long until the current window for subject expires.
func (l *Limiter) TTL(ctx context.Context, subject, action string) (time.Duration, error) {
	if l == nil || l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, key(subject, action)).Result()
}

// Clear drops the window so the next attempt is allowed immediately.
func (l *Limiter) Clear(ctx context.Context, subject, action string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	_, err := l.rdb.Del(ctx, key(subject, action)).Result()
	return err
}
