package grants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	op      string
	subject string
	item    string
	actor   string
}

type stubRepo struct {
	calls []call
	roles RolePermissions
	users UserRoles
}

func (s *stubRepo) RolePermissions(_ context.Context, roleID string) (RolePermissions, error) {
	s.calls = append(s.calls, call{op: "role-perms", subject: roleID})
	if s.roles.Role.ID != roleID {
		return RolePermissions{}, ErrRoleNotFound
	}
	return s.roles, nil
}

func (s *stubRepo) GrantPermission(_ context.Context, roleID, actionID, actorID string) error {
	s.calls = append(s.calls, call{op: "grant", subject: roleID, item: actionID, actor: actorID})
	return nil
}

func (s *stubRepo) RevokePermission(_ context.Context, roleID, actionID string) error {
	s.calls = append(s.calls, call{op: "revoke", subject: roleID, item: actionID})
	return nil
}

func (s *stubRepo) UserRoles(_ context.Context, userID string) (UserRoles, error) {
	s.calls = append(s.calls, call{op: "user-roles", subject: userID})
	if s.users.User.ID != userID {
		return UserRoles{}, ErrUserNotFound
	}
	return s.users, nil
}

func (s *stubRepo) AssignRole(_ context.Context, userID, roleID, actorID string) error {
	s.calls = append(s.calls, call{op: "assign", subject: userID, item: roleID, actor: actorID})
	return nil
}

func (s *stubRepo) UnassignRole(_ context.Context, userID, roleID string) error {
	s.calls = append(s.calls, call{op: "unassign", subject: userID, item: roleID})
	return nil
}

func TestRolePermissionsRequiresRoleID(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	_, err := svc.RolePermissions(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingSubject)
	require.Empty(t, repo.calls)
}

func TestRolePermissionsReturnsFullMatrix(t *testing.T) {
	repo := &stubRepo{roles: RolePermissions{
		Role: RoleRef{ID: "r1", Name: "manager"},
		ActionTypes: []ActionGrant{
			{ID: "a1", Name: "approve", Permission: true},
			{ID: "a2", Name: "export", Permission: false},
		},
	}}
	svc := NewService(repo)

	matrix, err := svc.RolePermissions(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, "manager", matrix.Role.Name)
	require.Len(t, matrix.ActionTypes, 2)
	require.False(t, matrix.ActionTypes[1].Permission)
}

func TestSetRolePermissionGrantsAndRevokes(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.SetRolePermission(context.Background(), "r1", "a1", true, "admin-1"))
	require.NoError(t, svc.SetRolePermission(context.Background(), "r1", "a2", false, "admin-1"))

	require.Equal(t, []call{
		{op: "grant", subject: "r1", item: "a1", actor: "admin-1"},
		{op: "revoke", subject: "r1", item: "a2"},
	}, repo.calls)
}

func TestSetRolePermissionValidatesIDs(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	require.ErrorIs(t, svc.SetRolePermission(context.Background(), "", "a1", true, ""), ErrMissingSubject)
	require.ErrorIs(t, svc.SetRolePermission(context.Background(), "r1", "", true, ""), ErrMissingItem)
	require.Empty(t, repo.calls)
}

func TestSetUserRoleAssignsAndUnassigns(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	require.NoError(t, svc.SetUserRole(context.Background(), "u1", "r1", true, "admin-1"))
	require.NoError(t, svc.SetUserRole(context.Background(), "u1", "r2", false, "admin-1"))

	require.Equal(t, []call{
		{op: "assign", subject: "u1", item: "r1", actor: "admin-1"},
		{op: "unassign", subject: "u1", item: "r2"},
	}, repo.calls)
}

func TestUserRolesUnknownUser(t *testing.T) {
	repo := &stubRepo{users: UserRoles{User: UserRef{ID: "u1"}}}
	svc := NewService(repo)

	_, err := svc.UserRoles(context.Background(), "u2")
	require.ErrorIs(t, err, ErrUserNotFound)
}
