package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aegisid/identity-service/internal/core/domain"
)

// RateLimiter counts login attempts per email in a fixed window.
// Key format: login_attempts:<email>
//
// INCR and EXPIRE run in one pipeline, so the count-and-check is atomic under
// concurrent logins for the same email and the window starts with the first
// attempt.
type RateLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRateLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// CheckLoginAllowed counts this attempt and fails once the quota for the
// window is exceeded.
func (l *RateLimiter) CheckLoginAllowed(ctx context.Context, email string) error {
	key := l.key(email)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}

	if count.Val() > int64(l.maxAttempts) {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// RecordSuccessfulLogin clears the attempt counter for the email.
func (l *RateLimiter) RecordSuccessfulLogin(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("rate limit reset: %w", err)
	}
	return nil
}

func (l *RateLimiter) key(email string) string {
	return "login_attempts:" + email
}
