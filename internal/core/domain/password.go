package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 64
)

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// PlainPassword is a clear-text password that satisfied the structural rules
// (length and character classes). It exists only in memory during a use-case
// call and is never persisted.
type PlainPassword string

// NewPlainPassword trims the input and enforces length and character-class
// requirements: 8-64 characters with at least one uppercase letter, one
// lowercase letter, one digit and one special character.
func NewPlainPassword(raw string) (PlainPassword, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: must not be blank", ErrInvalidPassword)
	}
	if len(raw) < passwordMinLength || len(raw) > passwordMaxLength {
		return "", fmt.Errorf("%w: must be between %d and %d characters", ErrInvalidPassword, passwordMinLength, passwordMaxLength)
	}
	if !upperPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: must contain at least one uppercase letter", ErrInvalidPassword)
	}
	if !lowerPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: must contain at least one lowercase letter", ErrInvalidPassword)
	}
	if !digitPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: must contain at least one digit", ErrInvalidPassword)
	}
	if !specialPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: must contain at least one special character", ErrInvalidPassword)
	}
	return PlainPassword(raw), nil
}

// PasswordHash is an opaque hash produced by a PasswordHasher.
type PasswordHash string

// NewPasswordHash validates that the value looks like a bcrypt hash.
func NewPasswordHash(raw string) (PasswordHash, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: must not be blank", ErrInvalidHash)
	}
	if !strings.HasPrefix(raw, "$2") {
		return "", fmt.Errorf("%w: unrecognised hash format", ErrInvalidHash)
	}
	return PasswordHash(raw), nil
}

// String masks the hash so it never leaks through logs or error messages.
func (PasswordHash) String() string { return "[PROTECTED]" }

// PasswordHasher hashes and verifies passwords. The concrete algorithm lives
// in the infrastructure layer; aggregates consume it through this interface.
type PasswordHasher interface {
	Hash(plain PlainPassword) (PasswordHash, error)
	Match(plain PlainPassword, hash PasswordHash) bool
}
