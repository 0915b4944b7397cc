package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epes-hq/epes/internal/platform/db"
)

// ErrNotFound indicates that the requested user does not exist.
var ErrNotFound = errors.New("users: not found")

// ErrDuplicateLogin indicates the login id is already taken.
var ErrDuplicateLogin = errors.New("users: login id already exists")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, first_name, last_name, login_id, email_work, email_personal, phone_number_work, phone_number_personal, is_active, active_start_date, active_end_date, created_at, updated_at, created_by, updated_by`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.LoginID, &u.EmailWork, &u.EmailPersonal, &u.PhoneNumberWork, &u.PhoneNumberPersonal, &u.IsActive, &u.ActiveStartDate, &u.ActiveEndDate, &u.CreatedAt, &u.UpdatedAt, &u.CreatedBy, &u.UpdatedBy)
	return u, err
}

// ListUsers returns all users ordered by last name.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser fetches a user by ID.
func (r *Repository) GetUser(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// CreateUser inserts a new user with a hashed password.
func (r *Repository) CreateUser(ctx context.Context, id string, in NewUser, passwordHash string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users (id, first_name, last_name, login_id, email_work, email_personal, phone_number_work, phone_number_personal, is_active, active_start_date, password, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		 RETURNING `+userColumns,
		id, in.FirstName, in.LastName, in.LoginID, in.EmailWork, in.EmailPersonal, in.PhoneNumberWork, in.PhoneNumberPersonal, in.IsActive, in.ActiveStartDate, passwordHash, nullable(in.ActorID)))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicateLogin
		}
		return User{}, err
	}
	return u, nil
}

// UpdateUser updates an existing user.
func (r *Repository) UpdateUser(ctx context.Context, id string, in UpdateUser) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, email_work = $4, email_personal = $5, phone_number_work = $6, phone_number_personal = $7, is_active = $8, active_end_date = $9, updated_by = $10, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, in.FirstName, in.LastName, in.EmailWork, in.EmailPersonal, in.PhoneNumberWork, in.PhoneNumberPersonal, in.IsActive, in.ActiveEndDate, nullable(in.ActorID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// DeleteUser removes a user and their role memberships in one transaction.
// Returns ErrNotFound if the user row does not exist.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
