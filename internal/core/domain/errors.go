package domain

import "errors"

// Validation errors raised when a value object rejects its input.
var (
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidHash       = errors.New("invalid password hash")
	ErrInvalidPermission = errors.New("invalid permission")
	ErrInvalidRoleName   = errors.New("invalid role name")
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrInvalidRoleID     = errors.New("invalid role id")
)

// Business-rule errors. All of these are expected, caller-recoverable
// conditions; the transport layer maps them 1:1 to client-facing statuses.
var (
	// ErrInvalidCredentials deliberately covers "user not found", "wrong
	// password" and "blacklisted token" so callers cannot enumerate accounts.
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserInactive           = errors.New("user is inactive")
	ErrTooManyAttempts        = errors.New("too many login attempts")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrIncorrectPassword      = errors.New("incorrect password")
	ErrRoleNotFound           = errors.New("role not found")
	ErrRoleAlreadyExists      = errors.New("role name already taken")
	ErrNoRolesAssigned        = errors.New("user must keep at least one role")
	ErrPermissionNotFound     = errors.New("permission not found")
	ErrEmptyRole              = errors.New("role must hold at least one permission")
	ErrUserNotFound           = errors.New("user not found")
)

// ErrRequiredField marks a missing required argument. Hitting it is a
// programmer error, not a recoverable condition.
var ErrRequiredField = errors.New("required field missing")
