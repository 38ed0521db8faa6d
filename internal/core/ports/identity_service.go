package ports

import "context"

// RoleResult is the role view returned by the admin use cases.
type RoleResult struct {
	ID          string
	Name        string
	Permissions []string
}

// UserDetail is the full user view for the admin surface (no hash).
type UserDetail struct {
	ID     string
	Email  string
	Active bool
	Roles  []RoleResult
}

// IdentityService exposes administrative user-lifecycle use cases.
type IdentityService interface {
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ResetPassword(ctx context.Context, userID, newPassword string) error
	AssignRoles(ctx context.Context, userID string, roleIDs []string) error
	RemoveRoles(ctx context.Context, userID string, roleIDs []string) error
	SetActivation(ctx context.Context, userID string, active bool) error
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
	GetUser(ctx context.Context, userID string) (UserDetail, error)
}

// RoleService exposes role-administration use cases.
type RoleService interface {
	CreateRole(ctx context.Context, name string, permissions []string) (RoleResult, error)
	AddPermissions(ctx context.Context, roleID string, permissions []string) (RoleResult, error)
	RemovePermissions(ctx context.Context, roleID string, permissions []string) (RoleResult, error)
	ListRoles(ctx context.Context) ([]RoleResult, error)
}
