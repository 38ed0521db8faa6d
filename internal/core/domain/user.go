package domain

import (
	"fmt"
	"time"
)

// User is the aggregate root for an account: identity, credentials, assigned
// roles and the activation flag. Accounts are never hard-deleted in this
// core; deactivation is the terminal state for removal.
type User struct {
	events       EventRecorder
	id           UserID
	email        Email
	passwordHash PasswordHash
	roles        []*Role
	active       bool
}

// Register creates a new active user, hashing the password through the
// supplied hasher, and records UserRegistered.
func Register(email Email, password PlainPassword, hasher PasswordHasher, now time.Time) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email", ErrRequiredField)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password", ErrRequiredField)
	}
	if hasher == nil {
		return nil, fmt.Errorf("%w: hasher", ErrRequiredField)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		id:           NewUserID(),
		email:        email,
		passwordHash: hash,
		active:       true,
	}
	u.events.Record(UserRegistered{UserID: u.id, Email: email, At: now})
	return u, nil
}

// RestoreUser rebuilds a user from persisted state without recording events.
func RestoreUser(id UserID, email Email, hash PasswordHash, roles []*Role, active bool) *User {
	u := &User{id: id, email: email, passwordHash: hash, active: active}
	u.roles = append(u.roles, roles...)
	return u
}

func (u *User) ID() UserID                 { return u.id }
func (u *User) Email() Email               { return u.email }
func (u *User) PasswordHash() PasswordHash { return u.passwordHash }
func (u *User) IsActive() bool             { return u.active }

// Roles returns a copy of the assigned roles in assignment order.
func (u *User) Roles() []*Role {
	out := make([]*Role, len(u.roles))
	copy(out, u.roles)
	return out
}

// RoleIDs returns the string ids of all assigned roles.
func (u *User) RoleIDs() []string {
	out := make([]string, len(u.roles))
	for i, r := range u.roles {
		out[i] = r.ID().String()
	}
	return out
}

// ChangePassword verifies the old password before replacing the hash.
func (u *User) ChangePassword(old, updated PlainPassword, hasher PasswordHasher, now time.Time) error {
	if hasher == nil {
		return fmt.Errorf("%w: hasher", ErrRequiredField)
	}
	if !hasher.Match(old, u.passwordHash) {
		return ErrIncorrectPassword
	}
	hash, err := hasher.Hash(updated)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.passwordHash = hash
	u.events.Record(PasswordChanged{UserID: u.id, At: now})
	return nil
}

// ResetPassword replaces the hash unconditionally. Administrative path.
func (u *User) ResetPassword(updated PlainPassword, hasher PasswordHasher, now time.Time) error {
	if hasher == nil {
		return fmt.Errorf("%w: hasher", ErrRequiredField)
	}
	hash, err := hasher.Hash(updated)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.passwordHash = hash
	u.events.Record(PasswordChanged{UserID: u.id, At: now})
	return nil
}

// HasRole reports whether the role is assigned to the user.
func (u *User) HasRole(id RoleID) bool {
	for _, r := range u.roles {
		if r.ID() == id {
			return true
		}
	}
	return false
}

// HasPermission reports whether any assigned role grants the permission.
func (u *User) HasPermission(p Permission) bool {
	for _, r := range u.roles {
		if r.HasPermission(p) {
			return true
		}
	}
	return false
}

// AssignRole adds a role. Assigning one that is already held is a no-op:
// no event is recorded.
func (u *User) AssignRole(role *Role, now time.Time) error {
	if role == nil {
		return fmt.Errorf("%w: role", ErrRequiredField)
	}
	if u.HasRole(role.ID()) {
		return nil
	}
	u.roles = append(u.roles, role)
	u.events.Record(RoleAssigned{UserID: u.id, RoleID: role.ID(), At: now})
	return nil
}

// RemoveRole removes a role. It fails with ErrRoleNotFound when the role is
// not assigned and with ErrNoRolesAssigned when it is the last one.
func (u *User) RemoveRole(role *Role, now time.Time) error {
	if role == nil {
		return fmt.Errorf("%w: role", ErrRequiredField)
	}
	if !u.HasRole(role.ID()) {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, role.ID())
	}
	if len(u.roles) <= 1 {
		return ErrNoRolesAssigned
	}
	u.remove(role.ID())
	u.events.Record(RoleRemoved{UserID: u.id, RoleID: role.ID(), At: now})
	return nil
}

// AssignRoles adds several roles at once; already-held roles are skipped.
func (u *User) AssignRoles(roles []*Role, now time.Time) error {
	for _, r := range roles {
		if err := u.AssignRole(r, now); err != nil {
			return err
		}
	}
	return nil
}

// RemoveRoles removes several roles with all-or-nothing semantics: every
// role must be assigned and at least one must remain afterwards, otherwise
// nothing is mutated.
func (u *User) RemoveRoles(roles []*Role, now time.Time) error {
	distinct := dedupeRoles(roles)
	for _, r := range distinct {
		if !u.HasRole(r.ID()) {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, r.ID())
		}
	}
	if len(u.roles) <= len(distinct) {
		return ErrNoRolesAssigned
	}
	for _, r := range distinct {
		u.remove(r.ID())
		u.events.Record(RoleRemoved{UserID: u.id, RoleID: r.ID(), At: now})
	}
	return nil
}

// Activate marks the user active. The event is recorded on every call, even
// when the flag did not change.
func (u *User) Activate(now time.Time) {
	u.active = true
	u.events.Record(UserActivationChanged{UserID: u.id, Active: true, At: now})
}

// Deactivate marks the user inactive, preventing logins.
func (u *User) Deactivate(now time.Time) {
	u.active = false
	u.events.Record(UserActivationChanged{UserID: u.id, Active: false, At: now})
}

// PullEvents drains the aggregate's event buffer.
func (u *User) PullEvents() []Event { return u.events.PullEvents() }

func (u *User) remove(id RoleID) {
	for i, r := range u.roles {
		if r.ID() == id {
			u.roles = append(u.roles[:i], u.roles[i+1:]...)
			return
		}
	}
}

func dedupeRoles(roles []*Role) []*Role {
	seen := make(map[RoleID]struct{}, len(roles))
	out := make([]*Role, 0, len(roles))
	for _, r := range roles {
		if r == nil {
			continue
		}
		if _, ok := seen[r.ID()]; ok {
			continue
		}
		seen[r.ID()] = struct{}{}
		out = append(out, r)
	}
	return out
}
