package grants

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRoleNotFound indicates the referenced role does not exist.
var ErrRoleNotFound = errors.New("grants: role not found")

// ErrUserNotFound indicates the referenced user does not exist.
var ErrUserNotFound = errors.New("grants: user not found")

// Repository provides PostgreSQL backed persistence for grant rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RolePermissions returns the role plus every action type annotated with
// whether a grant row exists for that role.
func (r *Repository) RolePermissions(ctx context.Context, roleID string) (RolePermissions, error) {
	var out RolePermissions
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM roles WHERE id = $1`, roleID).
		Scan(&out.Role.ID, &out.Role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RolePermissions{}, ErrRoleNotFound
		}
		return RolePermissions{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT at.id, at.name, rp.role_id IS NOT NULL
		 FROM action_types at
		 LEFT JOIN role_permissions rp ON rp.action_id = at.id AND rp.role_id = $1
		 ORDER BY at.name`, roleID)
	if err != nil {
		return RolePermissions{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var g ActionGrant
		if err := rows.Scan(&g.ID, &g.Name, &g.Permission); err != nil {
			return RolePermissions{}, err
		}
		out.ActionTypes = append(out.ActionTypes, g)
	}
	return out, rows.Err()
}

// GrantPermission inserts a role-permission row, a no-op if it already exists.
func (r *Repository) GrantPermission(ctx context.Context, roleID, actionID, actorID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO role_permissions (role_id, action_id, created_by, updated_by)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($3, ''))
		 ON CONFLICT (role_id, action_id) DO NOTHING`,
		roleID, actionID, actorID)
	return err
}

// RevokePermission deletes a role-permission row, a no-op if absent.
func (r *Repository) RevokePermission(ctx context.Context, roleID, actionID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM role_permissions WHERE role_id = $1 AND action_id = $2`, roleID, actionID)
	return err
}

// UserRoles returns the user plus every role annotated with whether a
// membership row exists for that user.
func (r *Repository) UserRoles(ctx context.Context, userID string) (UserRoles, error) {
	var out UserRoles
	err := r.pool.QueryRow(ctx,
		`SELECT id, login_id, first_name, last_name FROM users WHERE id = $1`, userID).
		Scan(&out.User.ID, &out.User.LoginID, &out.User.FirstName, &out.User.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRoles{}, ErrUserNotFound
		}
		return UserRoles{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT ro.id, ro.name, ur.user_id IS NOT NULL
		 FROM roles ro
		 LEFT JOIN user_roles ur ON ur.role_id = ro.id AND ur.user_id = $1
		 ORDER BY ro.name`, userID)
	if err != nil {
		return UserRoles{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var m RoleMembership
		if err := rows.Scan(&m.ID, &m.Name, &m.Active); err != nil {
			return UserRoles{}, err
		}
		out.Roles = append(out.Roles, m)
	}
	return out, rows.Err()
}

// AssignRole inserts a user-role row, a no-op if it already exists.
func (r *Repository) AssignRole(ctx context.Context, userID, roleID, actorID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id, created_by, updated_by)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($3, ''))
		 ON CONFLICT (user_id, role_id) DO NOTHING`,
		userID, roleID, actorID)
	return err
}

// UnassignRole deletes a user-role row, a no-op if absent.
func (r *Repository) UnassignRole(ctx context.Context, userID, roleID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	return err
}
