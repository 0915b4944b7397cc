package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for tasks.
type RepositoryPort interface {
	ListTasks(ctx context.Context, projectID, assigneeID string) ([]Task, error)
	GetTask(ctx context.Context, id string) (Task, error)
	CreateTask(ctx context.Context, t Task, actorID string) (Task, error)
	UpdateTask(ctx context.Context, t Task, actorID string) (Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Service handles task business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListTasks returns tasks filtered by project and/or assignee.
func (s *Service) ListTasks(ctx context.Context, projectID, assigneeID string) ([]Task, error) {
	return s.repo.ListTasks(ctx, projectID, assigneeID)
}

// GetTask fetches a task by ID.
func (s *Service) GetTask(ctx context.Context, id string) (Task, error) {
	return s.repo.GetTask(ctx, id)
}

func normalize(t Task) (Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return Task{}, errors.New("tasks: title required")
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if !ValidStatus(t.Status) {
		return Task{}, fmt.Errorf("tasks: unknown status %q", t.Status)
	}
	return t, nil
}

// CreateTask inserts a new task.
func (s *Service) CreateTask(ctx context.Context, t Task, actorID string) (Task, error) {
	if t.ProjectID == "" {
		return Task{}, errors.New("tasks: project id required")
	}
	t, err := normalize(t)
	if err != nil {
		return Task{}, err
	}
	t.ID = uuid.NewString()
	return s.repo.CreateTask(ctx, t, actorID)
}

// UpdateTask updates an existing task.
func (s *Service) UpdateTask(ctx context.Context, t Task, actorID string) (Task, error) {
	id := t.ID
	t, err := normalize(t)
	if err != nil {
		return Task{}, err
	}
	t.ID = id
	return s.repo.UpdateTask(ctx, t, actorID)
}

// DeleteTask removes a task by ID.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.repo.DeleteTask(ctx, id)
}
