package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for projects.
type RepositoryPort interface {
	ListProjects(ctx context.Context, branchID string) ([]Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	CreateProject(ctx context.Context, p Project, actorID string) (Project, error)
	UpdateProject(ctx context.Context, p Project, actorID string) (Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// Service handles project business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListProjects returns projects, optionally restricted to one branch.
func (s *Service) ListProjects(ctx context.Context, branchID string) ([]Project, error) {
	return s.repo.ListProjects(ctx, branchID)
}

// GetProject fetches a project by ID.
func (s *Service) GetProject(ctx context.Context, id string) (Project, error) {
	return s.repo.GetProject(ctx, id)
}

func normalize(p Project) (Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Project{}, errors.New("projects: name required")
	}
	if p.Status == "" {
		p.Status = StatusPlanned
	}
	if !ValidStatus(p.Status) {
		return Project{}, fmt.Errorf("projects: unknown status %q", p.Status)
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return Project{}, errors.New("projects: end date before start date")
	}
	return p, nil
}

// CreateProject inserts a new project.
func (s *Service) CreateProject(ctx context.Context, p Project, actorID string) (Project, error) {
	p, err := normalize(p)
	if err != nil {
		return Project{}, err
	}
	p.ID = uuid.NewString()
	return s.repo.CreateProject(ctx, p, actorID)
}

// UpdateProject updates an existing project.
func (s *Service) UpdateProject(ctx context.Context, p Project, actorID string) (Project, error) {
	id := p.ID
	p, err := normalize(p)
	if err != nil {
		return Project{}, err
	}
	p.ID = id
	return s.repo.UpdateProject(ctx, p, actorID)
}

// DeleteProject removes a project by ID.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.repo.DeleteProject(ctx, id)
}
