package tasks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested task does not exist.
var ErrNotFound = errors.New("tasks: not found")

// ErrUnknownProject indicates the referenced project does not exist.
var ErrUnknownProject = errors.New("tasks: project not found")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskColumns = `id, project_id, title, description, assignee_id, status, due_date, created_at, updated_at, created_by, updated_by`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.Status, &t.DueDate,
		&t.CreatedAt, &t.UpdatedAt, &t.CreatedBy, &t.UpdatedBy)
	return t, err
}

// ListTasks returns tasks filtered by project and/or assignee.
func (r *Repository) ListTasks(ctx context.Context, projectID, assigneeID string) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE ($1 = '' OR project_id = $1) AND ($2 = '' OR assignee_id = $2)
		 ORDER BY created_at DESC`,
		projectID, assigneeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask fetches a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

// CreateTask inserts a new task.
func (r *Repository) CreateTask(ctx context.Context, t Task, actorID string) (Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, project_id, title, description, assignee_id, status, due_date, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($8, ''))
		 RETURNING `+taskColumns,
		t.ID, t.ProjectID, t.Title, t.Description, t.AssigneeID, t.Status, t.DueDate, actorID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Task{}, ErrUnknownProject
		}
		return Task{}, err
	}
	return created, nil
}

// UpdateTask updates an existing task.
func (r *Repository) UpdateTask(ctx context.Context, t Task, actorID string) (Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx,
		`UPDATE tasks
		 SET title = $2, description = $3, assignee_id = $4, status = $5, due_date = $6,
		     updated_by = NULLIF($7, ''), updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+taskColumns,
		t.ID, t.Title, t.Description, t.AssigneeID, t.Status, t.DueDate, actorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return updated, nil
}

// DeleteTask removes a task by ID.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
