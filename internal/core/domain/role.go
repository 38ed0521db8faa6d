package domain

import (
	"fmt"
	"time"
)

// Role groups permissions under a named grant. A role always holds at least
// one permission: creation with an empty set fails and the last permission
// cannot be removed.
type Role struct {
	events      EventRecorder
	id          RoleID
	name        RoleName
	permissions []Permission
}

// NewRole creates a role with a generated id and the given permission set.
func NewRole(name RoleName, permissions []Permission) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrRequiredField)
	}
	if len(permissions) == 0 {
		return nil, ErrEmptyRole
	}
	r := &Role{id: NewRoleID(), name: name}
	for _, p := range permissions {
		if !r.HasPermission(p) {
			r.permissions = append(r.permissions, p)
		}
	}
	return r, nil
}

// RestoreRole rebuilds a role from persisted state without recording events.
func RestoreRole(id RoleID, name RoleName, permissions []Permission) *Role {
	r := &Role{id: id, name: name}
	r.permissions = append(r.permissions, permissions...)
	return r
}

func (r *Role) ID() RoleID     { return r.id }
func (r *Role) Name() RoleName { return r.name }

// Permissions returns a copy of the permission set in insertion order.
func (r *Role) Permissions() []Permission {
	out := make([]Permission, len(r.permissions))
	copy(out, r.permissions)
	return out
}

// HasPermission reports whether the role grants the given permission.
func (r *Role) HasPermission(p Permission) bool {
	for _, existing := range r.permissions {
		if existing == p {
			return true
		}
	}
	return false
}

// AddPermission grants a permission. Adding one that is already present is a
// no-op: no event is recorded and the set is unchanged.
func (r *Role) AddPermission(p Permission, now time.Time) error {
	if p == "" {
		return fmt.Errorf("%w: permission", ErrRequiredField)
	}
	if r.HasPermission(p) {
		return nil
	}
	r.permissions = append(r.permissions, p)
	r.events.Record(PermissionAdded{RoleID: r.id, Permission: p, At: now})
	return nil
}

// RemovePermission revokes a permission. It fails with ErrPermissionNotFound
// when the permission is absent and with ErrEmptyRole when it is the last one.
func (r *Role) RemovePermission(p Permission, now time.Time) error {
	if p == "" {
		return fmt.Errorf("%w: permission", ErrRequiredField)
	}
	if !r.HasPermission(p) {
		return fmt.Errorf("%w: %s", ErrPermissionNotFound, p)
	}
	if len(r.permissions) <= 1 {
		return ErrEmptyRole
	}
	r.remove(p)
	r.events.Record(PermissionRemoved{RoleID: r.id, Permission: p, At: now})
	return nil
}

// AddPermissions grants several permissions at once; duplicates are skipped.
func (r *Role) AddPermissions(perms []Permission, now time.Time) error {
	for _, p := range perms {
		if err := r.AddPermission(p, now); err != nil {
			return err
		}
	}
	return nil
}

// RemovePermissions revokes several permissions with all-or-nothing
// semantics: every permission must be present and at least one must remain
// afterwards, otherwise nothing is mutated.
func (r *Role) RemovePermissions(perms []Permission, now time.Time) error {
	distinct := dedupePermissions(perms)
	for _, p := range distinct {
		if !r.HasPermission(p) {
			return fmt.Errorf("%w: %s", ErrPermissionNotFound, p)
		}
	}
	if len(r.permissions) <= len(distinct) {
		return ErrEmptyRole
	}
	for _, p := range distinct {
		r.remove(p)
		r.events.Record(PermissionRemoved{RoleID: r.id, Permission: p, At: now})
	}
	return nil
}

// PullEvents drains the aggregate's event buffer.
func (r *Role) PullEvents() []Event { return r.events.PullEvents() }

func (r *Role) remove(p Permission) {
	for i, existing := range r.permissions {
		if existing == p {
			r.permissions = append(r.permissions[:i], r.permissions[i+1:]...)
			return
		}
	}
}

func dedupePermissions(perms []Permission) []Permission {
	seen := make(map[Permission]struct{}, len(perms))
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
