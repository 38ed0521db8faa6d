package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID uniquely identifies a User aggregate.
type UserID uuid.UUID

// NewUserID generates a random user identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

// ParseUserID parses a user identifier from its string form.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("%w: %q", ErrInvalidUserID, s)
	}
	return UserID(id), nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }

// RoleID uniquely identifies a Role aggregate.
type RoleID uuid.UUID

// NewRoleID generates a random role identifier.
func NewRoleID() RoleID { return RoleID(uuid.New()) }

// ParseRoleID parses a role identifier from its string form.
func ParseRoleID(s string) (RoleID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RoleID{}, fmt.Errorf("%w: %q", ErrInvalidRoleID, s)
	}
	return RoleID(id), nil
}

func (id RoleID) String() string { return uuid.UUID(id).String() }
