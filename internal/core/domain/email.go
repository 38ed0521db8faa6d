package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?){1,10}$`,
)

// Email is a validated, trimmed email address.
type Email string

// NewEmail trims the input and validates it against an RFC-like pattern.
func NewEmail(raw string) (Email, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: must not be blank", ErrInvalidEmail)
	}
	if !emailPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	return Email(raw), nil
}

func (e Email) String() string { return string(e) }
