package ports

import (
	"context"

	"github.com/aegisid/identity-service/internal/core/domain"
)

// UserRepository defines persistence operations for the User aggregate.
type UserRepository interface {
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email domain.Email) (bool, error)
	// Save persists the aggregate, inserting or replacing as needed.
	Save(ctx context.Context, user *domain.User) error
}

// RoleRepository defines persistence operations for the Role aggregate.
type RoleRepository interface {
	FindByID(ctx context.Context, id domain.RoleID) (*domain.Role, error)
	FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	ExistsByName(ctx context.Context, name domain.RoleName) (bool, error)
	Save(ctx context.Context, role *domain.Role) error
	FindAll(ctx context.Context) ([]*domain.Role, error)
}
