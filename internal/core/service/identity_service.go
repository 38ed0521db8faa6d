package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aegisid/identity-service/internal/core/domain"
	"github.com/aegisid/identity-service/internal/core/ports"
)

// IdentityService implements the administrative user-lifecycle use cases:
// password management, role assignment and activation toggling.
type IdentityService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher domain.PasswordHasher
	events ports.EventPublisher
	clock  ports.Clock
	log    zerolog.Logger
}

func NewIdentityService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher domain.PasswordHasher,
	events ports.EventPublisher,
	clock ports.Clock,
	log zerolog.Logger,
) *IdentityService {
	return &IdentityService{
		users:  users,
		roles:  roles,
		hasher: hasher,
		events: events,
		clock:  clock,
		log:    log,
	}
}

// ChangePassword replaces a user's password after verifying the old one.
func (s *IdentityService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	old, err := domain.NewPlainPassword(oldPassword)
	if err != nil {
		return err
	}
	next, err := domain.NewPlainPassword(newPassword)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(old, next, s.hasher, s.clock.Now()); err != nil {
		return err
	}
	return s.saveAndPublish(ctx, user)
}

// ResetPassword replaces a user's password without verification.
// Administrative path for forgotten-password flows.
func (s *IdentityService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	next, err := domain.NewPlainPassword(newPassword)
	if err != nil {
		return err
	}
	if err := user.ResetPassword(next, s.hasher, s.clock.Now()); err != nil {
		return err
	}
	return s.saveAndPublish(ctx, user)
}

// AssignRoles adds the given roles to the user; roles already held are
// skipped without recording events.
func (s *IdentityService) AssignRoles(ctx context.Context, userID string, roleIDs []string) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	roles, err := s.loadRoles(ctx, roleIDs)
	if err != nil {
		return err
	}
	if err := user.AssignRoles(roles, s.clock.Now()); err != nil {
		return err
	}
	return s.saveAndPublish(ctx, user)
}

// RemoveRoles removes the given roles with all-or-nothing semantics.
func (s *IdentityService) RemoveRoles(ctx context.Context, userID string, roleIDs []string) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	roles, err := s.loadRoles(ctx, roleIDs)
	if err != nil {
		return err
	}
	if err := user.RemoveRoles(roles, s.clock.Now()); err != nil {
		return err
	}
	return s.saveAndPublish(ctx, user)
}

// SetActivation toggles the user's active flag. Deactivation is the terminal
// state for account removal; the event is recorded on every call.
func (s *IdentityService) SetActivation(ctx context.Context, userID string, active bool) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	if active {
		user.Activate(now)
	} else {
		user.Deactivate(now)
	}
	return s.saveAndPublish(ctx, user)
}

// HasPermission reports whether any of the user's roles grants the
// permission.
func (s *IdentityService) HasPermission(ctx context.Context, userID, permission string) (bool, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}
	p, err := domain.NewPermission(permission)
	if err != nil {
		return false, err
	}
	return user.HasPermission(p), nil
}

// GetUser returns the admin view of a user.
func (s *IdentityService) GetUser(ctx context.Context, userID string) (ports.UserDetail, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return ports.UserDetail{}, err
	}
	detail := ports.UserDetail{
		ID:     user.ID().String(),
		Email:  user.Email().String(),
		Active: user.IsActive(),
	}
	for _, r := range user.Roles() {
		detail.Roles = append(detail.Roles, roleResult(r))
	}
	return detail, nil
}

func (s *IdentityService) loadUser(ctx context.Context, userID string) (*domain.User, error) {
	id, err := domain.ParseUserID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) loadRoles(ctx context.Context, roleIDs []string) ([]*domain.Role, error) {
	roles := make([]*domain.Role, 0, len(roleIDs))
	for _, raw := range roleIDs {
		id, err := domain.ParseRoleID(raw)
		if err != nil {
			return nil, err
		}
		role, err := s.roles.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (s *IdentityService) saveAndPublish(ctx context.Context, user *domain.User) error {
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	for _, e := range user.PullEvents() {
		if err := s.events.Publish(e); err != nil {
			s.log.Warn().Err(err).Str("event", e.Name()).Msg("failed to publish domain event")
		}
	}
	return nil
}

func roleResult(r *domain.Role) ports.RoleResult {
	res := ports.RoleResult{ID: r.ID().String(), Name: r.Name().String()}
	for _, p := range r.Permissions() {
		res.Permissions = append(res.Permissions, p.String())
	}
	return res
}
