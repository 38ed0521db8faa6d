package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aegisid/identity-service/internal/core/domain"
	"github.com/aegisid/identity-service/internal/core/ports"
)

// RoleService implements role administration: creation and permission
// grants/revocations.
type RoleService struct {
	roles  ports.RoleRepository
	events ports.EventPublisher
	clock  ports.Clock
	log    zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, events ports.EventPublisher, clock ports.Clock, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, events: events, clock: clock, log: log}
}

// CreateRole creates a role with the given name and non-empty permission
// set.
func (s *RoleService) CreateRole(ctx context.Context, name string, permissions []string) (ports.RoleResult, error) {
	roleName, err := domain.NewRoleName(name)
	if err != nil {
		return ports.RoleResult{}, err
	}
	perms, err := parsePermissions(permissions)
	if err != nil {
		return ports.RoleResult{}, err
	}

	exists, err := s.roles.ExistsByName(ctx, roleName)
	if err != nil {
		return ports.RoleResult{}, fmt.Errorf("create role: %w", err)
	}
	if exists {
		return ports.RoleResult{}, domain.ErrRoleAlreadyExists
	}

	role, err := domain.NewRole(roleName, perms)
	if err != nil {
		return ports.RoleResult{}, err
	}
	if err := s.roles.Save(ctx, role); err != nil {
		return ports.RoleResult{}, fmt.Errorf("create role: %w", err)
	}

	s.log.Info().Str("role_id", role.ID().String()).Str("name", name).Msg("role created")

	return roleResult(role), nil
}

// AddPermissions grants permissions to a role; duplicates are skipped.
func (s *RoleService) AddPermissions(ctx context.Context, roleID string, permissions []string) (ports.RoleResult, error) {
	role, perms, err := s.loadRoleAndPermissions(ctx, roleID, permissions)
	if err != nil {
		return ports.RoleResult{}, err
	}
	if err := role.AddPermissions(perms, s.clock.Now()); err != nil {
		return ports.RoleResult{}, err
	}
	if err := s.saveAndPublish(ctx, role); err != nil {
		return ports.RoleResult{}, err
	}
	return roleResult(role), nil
}

// RemovePermissions revokes permissions from a role with all-or-nothing
// semantics; the role can never be emptied.
func (s *RoleService) RemovePermissions(ctx context.Context, roleID string, permissions []string) (ports.RoleResult, error) {
	role, perms, err := s.loadRoleAndPermissions(ctx, roleID, permissions)
	if err != nil {
		return ports.RoleResult{}, err
	}
	if err := role.RemovePermissions(perms, s.clock.Now()); err != nil {
		return ports.RoleResult{}, err
	}
	if err := s.saveAndPublish(ctx, role); err != nil {
		return ports.RoleResult{}, err
	}
	return roleResult(role), nil
}

// ListRoles returns every role in the system.
func (s *RoleService) ListRoles(ctx context.Context) ([]ports.RoleResult, error) {
	roles, err := s.roles.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make([]ports.RoleResult, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleResult(r))
	}
	return out, nil
}

func (s *RoleService) loadRoleAndPermissions(ctx context.Context, roleID string, permissions []string) (*domain.Role, []domain.Permission, error) {
	id, err := domain.ParseRoleID(roleID)
	if err != nil {
		return nil, nil, err
	}
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	perms, err := parsePermissions(permissions)
	if err != nil {
		return nil, nil, err
	}
	return role, perms, nil
}

func (s *RoleService) saveAndPublish(ctx context.Context, role *domain.Role) error {
	if err := s.roles.Save(ctx, role); err != nil {
		return fmt.Errorf("save role: %w", err)
	}
	for _, e := range role.PullEvents() {
		if err := s.events.Publish(e); err != nil {
			s.log.Warn().Err(err).Str("event", e.Name()).Msg("failed to publish domain event")
		}
	}
	return nil
}

func parsePermissions(raw []string) ([]domain.Permission, error) {
	perms := make([]domain.Permission, 0, len(raw))
	for _, p := range raw {
		perm, err := domain.NewPermission(p)
		if err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, nil
}
