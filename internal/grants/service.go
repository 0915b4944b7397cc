package grants

import (
	"context"
	"errors"
)

// ErrMissingSubject indicates the caller omitted the role or user ID.
var ErrMissingSubject = errors.New("grants: subject id required")

// ErrMissingItem indicates the caller omitted the action or role ID.
var ErrMissingItem = errors.New("grants: item id required")

// RepositoryPort defines data access methods for grant rows.
type RepositoryPort interface {
	RolePermissions(ctx context.Context, roleID string) (RolePermissions, error)
	GrantPermission(ctx context.Context, roleID, actionID, actorID string) error
	RevokePermission(ctx context.Context, roleID, actionID string) error
	UserRoles(ctx context.Context, userID string) (UserRoles, error)
	AssignRole(ctx context.Context, userID, roleID, actorID string) error
	UnassignRole(ctx context.Context, userID, roleID string) error
}

// Service handles grant matrix logic. Updates are idempotent: setting a
// flag that already holds is not an error, so a client replaying its full
// item list converges on the same rows.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// RolePermissions returns the full grant matrix for one role.
func (s *Service) RolePermissions(ctx context.Context, roleID string) (RolePermissions, error) {
	if roleID == "" {
		return RolePermissions{}, ErrMissingSubject
	}
	return s.repo.RolePermissions(ctx, roleID)
}

// SetRolePermission grants or revokes a single action for a role.
func (s *Service) SetRolePermission(ctx context.Context, roleID, actionID string, permission bool, actorID string) error {
	if roleID == "" {
		return ErrMissingSubject
	}
	if actionID == "" {
		return ErrMissingItem
	}
	if permission {
		return s.repo.GrantPermission(ctx, roleID, actionID, actorID)
	}
	return s.repo.RevokePermission(ctx, roleID, actionID)
}

// UserRoles returns the full membership matrix for one user.
func (s *Service) UserRoles(ctx context.Context, userID string) (UserRoles, error) {
	if userID == "" {
		return UserRoles{}, ErrMissingSubject
	}
	return s.repo.UserRoles(ctx, userID)
}

// SetUserRole assigns or unassigns a single role for a user.
func (s *Service) SetUserRole(ctx context.Context, userID, roleID string, active bool, actorID string) error {
	if userID == "" {
		return ErrMissingSubject
	}
	if roleID == "" {
		return ErrMissingItem
	}
	if active {
		return s.repo.AssignRole(ctx, userID, roleID, actorID)
	}
	return s.repo.UnassignRole(ctx, userID, roleID)
}
