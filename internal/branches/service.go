package branches

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for branches.
type RepositoryPort interface {
	ListBranches(ctx context.Context) ([]Branch, error)
	GetBranch(ctx context.Context, id string) (Branch, error)
	CreateBranch(ctx context.Context, b Branch, actorID string) (Branch, error)
	UpdateBranch(ctx context.Context, b Branch, actorID string) (Branch, error)
	DeleteBranch(ctx context.Context, id string) error
}

// Service handles branch business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListBranches returns all branches.
func (s *Service) ListBranches(ctx context.Context) ([]Branch, error) {
	return s.repo.ListBranches(ctx)
}

// GetBranch fetches a branch by ID.
func (s *Service) GetBranch(ctx context.Context, id string) (Branch, error) {
	return s.repo.GetBranch(ctx, id)
}

// CreateBranch inserts a new branch.
func (s *Service) CreateBranch(ctx context.Context, b Branch, actorID string) (Branch, error) {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return Branch{}, errors.New("branches: name required")
	}
	b.ID = uuid.NewString()
	return s.repo.CreateBranch(ctx, b, actorID)
}

// UpdateBranch updates an existing branch.
func (s *Service) UpdateBranch(ctx context.Context, b Branch, actorID string) (Branch, error) {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return Branch{}, errors.New("branches: name required")
	}
	return s.repo.UpdateBranch(ctx, b, actorID)
}

// DeleteBranch removes a branch by ID.
func (s *Service) DeleteBranch(ctx context.Context, id string) error {
	return s.repo.DeleteBranch(ctx, id)
}
