package actions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for action types.
type RepositoryPort interface {
	ListActionTypes(ctx context.Context) ([]ActionType, error)
	GetActionType(ctx context.Context, id string) (ActionType, error)
	CreateActionType(ctx context.Context, id, name, actorID string) (ActionType, error)
	UpdateActionType(ctx context.Context, id, name, actorID string) (ActionType, error)
	DeleteActionType(ctx context.Context, id string) error
}

// Service handles action type business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListActionTypes returns all action types.
func (s *Service) ListActionTypes(ctx context.Context) ([]ActionType, error) {
	return s.repo.ListActionTypes(ctx)
}

// GetActionType fetches an action type by ID.
func (s *Service) GetActionType(ctx context.Context, id string) (ActionType, error) {
	return s.repo.GetActionType(ctx, id)
}

// CreateActionType inserts a new action type.
func (s *Service) CreateActionType(ctx context.Context, name, actorID string) (ActionType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ActionType{}, errors.New("actions: name required")
	}
	return s.repo.CreateActionType(ctx, uuid.NewString(), name, actorID)
}

// UpdateActionType updates an existing action type.
func (s *Service) UpdateActionType(ctx context.Context, id, name, actorID string) (ActionType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ActionType{}, errors.New("actions: name required")
	}
	return s.repo.UpdateActionType(ctx, id, name, actorID)
}

// DeleteActionType removes an action type by ID.
func (s *Service) DeleteActionType(ctx context.Context, id string) error {
	return s.repo.DeleteActionType(ctx, id)
}
