package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const nameMaxLength = 100

// Permission names are dotted lowercase segments, e.g. "iam.user.read".
var permissionPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*(?:\.[a-z][a-z0-9-]*)+$`)

// Role names: optional ROLE_ prefix, all-caps segments joined by single
// underscores, digits only after the first segment started, up to 3 segments.
var roleNamePattern = regexp.MustCompile(`^(?:ROLE_)?[A-Z][A-Z]*(?:[0-9]+[A-Z]*)*(?:_[A-Z0-9]{1,30}){0,2}$`)

// Permission is a single grantable capability.
type Permission string

// NewPermission validates the dotted lowercase format and the length cap.
func NewPermission(raw string) (Permission, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: must not be blank", ErrInvalidPermission)
	}
	if len(raw) > nameMaxLength {
		return "", fmt.Errorf("%w: must not exceed %d characters", ErrInvalidPermission, nameMaxLength)
	}
	if !permissionPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPermission, raw)
	}
	return Permission(raw), nil
}

func (p Permission) String() string { return string(p) }

// RoleName is the constrained, upper-case name of a role, e.g. "ROLE_ADMIN".
type RoleName string

// NewRoleName validates the upper-case segmented format and the length cap.
func NewRoleName(raw string) (RoleName, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: must not be blank", ErrInvalidRoleName)
	}
	if len(raw) > nameMaxLength {
		return "", fmt.Errorf("%w: must not exceed %d characters", ErrInvalidRoleName, nameMaxLength)
	}
	if !roleNamePattern.MatchString(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRoleName, raw)
	}
	return RoleName(raw), nil
}

func (n RoleName) String() string { return string(n) }
