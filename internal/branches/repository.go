package branches

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested branch does not exist.
var ErrNotFound = errors.New("branches: not found")

// ErrDuplicateName indicates the branch name is already taken.
var ErrDuplicateName = errors.New("branches: name already exists")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const branchColumns = `id, name, address, phone, created_at, updated_at, created_by, updated_by`

func scanBranch(row pgx.Row) (Branch, error) {
	var b Branch
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt, &b.UpdatedAt, &b.CreatedBy, &b.UpdatedBy)
	return b, err
}

// ListBranches returns all branches ordered by name.
func (r *Repository) ListBranches(ctx context.Context) ([]Branch, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+branchColumns+` FROM branches ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var branches []Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// GetBranch fetches a branch by ID.
func (r *Repository) GetBranch(ctx context.Context, id string) (Branch, error) {
	b, err := scanBranch(r.pool.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Branch{}, ErrNotFound
		}
		return Branch{}, err
	}
	return b, nil
}

// CreateBranch inserts a new branch.
func (r *Repository) CreateBranch(ctx context.Context, b Branch, actorID string) (Branch, error) {
	created, err := scanBranch(r.pool.QueryRow(ctx,
		`INSERT INTO branches (id, name, address, phone, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($5, ''))
		 RETURNING `+branchColumns,
		b.ID, b.Name, b.Address, b.Phone, actorID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Branch{}, ErrDuplicateName
		}
		return Branch{}, err
	}
	return created, nil
}

// UpdateBranch updates an existing branch.
func (r *Repository) UpdateBranch(ctx context.Context, b Branch, actorID string) (Branch, error) {
	updated, err := scanBranch(r.pool.QueryRow(ctx,
		`UPDATE branches SET name = $2, address = $3, phone = $4, updated_by = NULLIF($5, ''), updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+branchColumns,
		b.ID, b.Name, b.Address, b.Phone, actorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Branch{}, ErrNotFound
		}
		return Branch{}, err
	}
	return updated, nil
}

// DeleteBranch removes a branch by ID.
func (r *Repository) DeleteBranch(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
