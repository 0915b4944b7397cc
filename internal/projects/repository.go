package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested project does not exist.
var ErrNotFound = errors.New("projects: not found")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const projectColumns = `id, name, description, branch_id, status, start_date, end_date, created_at, updated_at, created_by, updated_by`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.BranchID, &p.Status, &p.StartDate, &p.EndDate,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy)
	return p, err
}

// ListProjects returns projects, optionally restricted to one branch.
func (r *Repository) ListProjects(ctx context.Context, branchID string) ([]Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE ($1 = '' OR branch_id = $1) ORDER BY created_at DESC`,
		branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject fetches a project by ID.
func (r *Repository) GetProject(ctx context.Context, id string) (Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return p, nil
}

// CreateProject inserts a new project.
func (r *Repository) CreateProject(ctx context.Context, p Project, actorID string) (Project, error) {
	return scanProject(r.pool.QueryRow(ctx,
		`INSERT INTO projects (id, name, description, branch_id, status, start_date, end_date, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($8, ''))
		 RETURNING `+projectColumns,
		p.ID, p.Name, p.Description, p.BranchID, p.Status, p.StartDate, p.EndDate, actorID))
}

// UpdateProject updates an existing project.
func (r *Repository) UpdateProject(ctx context.Context, p Project, actorID string) (Project, error) {
	updated, err := scanProject(r.pool.QueryRow(ctx,
		`UPDATE projects
		 SET name = $2, description = $3, branch_id = $4, status = $5, start_date = $6, end_date = $7,
		     updated_by = NULLIF($8, ''), updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+projectColumns,
		p.ID, p.Name, p.Description, p.BranchID, p.Status, p.StartDate, p.EndDate, actorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return updated, nil
}

// DeleteProject removes a project by ID.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
