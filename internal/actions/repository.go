package actions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested action type does not exist.
var ErrNotFound = errors.New("actions: not found")

// ErrDuplicateName indicates the action type name is already taken.
var ErrDuplicateName = errors.New("actions: name already exists")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const actionColumns = `id, name, created_at, updated_at, created_by, updated_by`

func scanActionType(row pgx.Row) (ActionType, error) {
	var at ActionType
	err := row.Scan(&at.ID, &at.Name, &at.CreatedAt, &at.UpdatedAt, &at.CreatedBy, &at.UpdatedBy)
	return at, err
}

// ListActionTypes returns all action types ordered by name.
func (r *Repository) ListActionTypes(ctx context.Context) ([]ActionType, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+actionColumns+` FROM action_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var types []ActionType
	for rows.Next() {
		at, err := scanActionType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, at)
	}
	return types, rows.Err()
}

// GetActionType fetches an action type by ID.
func (r *Repository) GetActionType(ctx context.Context, id string) (ActionType, error) {
	at, err := scanActionType(r.pool.QueryRow(ctx, `SELECT `+actionColumns+` FROM action_types WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ActionType{}, ErrNotFound
		}
		return ActionType{}, err
	}
	return at, nil
}

// CreateActionType inserts a new action type.
func (r *Repository) CreateActionType(ctx context.Context, id, name, actorID string) (ActionType, error) {
	at, err := scanActionType(r.pool.QueryRow(ctx,
		`INSERT INTO action_types (id, name, created_by, updated_by) VALUES ($1, $2, NULLIF($3, ''), NULLIF($3, '')) RETURNING `+actionColumns,
		id, name, actorID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ActionType{}, ErrDuplicateName
		}
		return ActionType{}, err
	}
	return at, nil
}

// UpdateActionType updates an existing action type.
func (r *Repository) UpdateActionType(ctx context.Context, id, name, actorID string) (ActionType, error) {
	at, err := scanActionType(r.pool.QueryRow(ctx,
		`UPDATE action_types SET name = $2, updated_by = NULLIF($3, ''), updated_at = NOW() WHERE id = $1 RETURNING `+actionColumns,
		id, name, actorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ActionType{}, ErrNotFound
		}
		return ActionType{}, err
	}
	return at, nil
}

// DeleteActionType removes an action type by ID.
func (r *Repository) DeleteActionType(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM action_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
