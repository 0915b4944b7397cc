package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epes-hq/epes/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByLoginID(ctx context.Context, loginID string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByLoginID fetches a user with their role names by login id.
func (r *PGRepository) FindByLoginID(ctx context.Context, loginID string) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `SELECT id, login_id, first_name, last_name, email_work, password, is_active, created_at, updated_at FROM users WHERE login_id = $1`, loginID).
		Scan(&user.ID, &user.LoginID, &user.FirstName, &user.LastName, &user.EmailWork, &user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT r.name FROM roles r JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id = $1 ORDER BY r.name`, user.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		user.Roles = append(user.Roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
