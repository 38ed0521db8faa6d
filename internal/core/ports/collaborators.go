package ports

import (
	"context"
	"time"

	"github.com/aegisid/identity-service/internal/core/domain"
)

// RateLimiter guards the login endpoint against brute force per email key.
// Increment and check must be atomic under concurrent logins for the same
// email.
type RateLimiter interface {
	// CheckLoginAllowed counts this attempt against the email's quota for
	// the current window and fails with domain.ErrTooManyAttempts once the
	// quota is exceeded. Called before any credential lookup so the limiter
	// cannot leak whether an email exists.
	CheckLoginAllowed(ctx context.Context, email string) error
	// RecordSuccessfulLogin clears the attempt counter for the email.
	RecordSuccessfulLogin(ctx context.Context, email string) error
}

// EventPublisher delivers drained domain events to downstream consumers.
type EventPublisher interface {
	Publish(event domain.Event) error
}

// Clock supplies the current instant. Domain methods take timestamps
// explicitly; this port is the only place the wall clock is read.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
