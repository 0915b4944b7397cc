package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	created Project
}

func (s *stubRepo) ListProjects(context.Context, string) ([]Project, error) { return nil, nil }
func (s *stubRepo) GetProject(context.Context, string) (Project, error)    { return Project{}, ErrNotFound }
func (s *stubRepo) CreateProject(_ context.Context, p Project, _ string) (Project, error) {
	s.created = p
	return p, nil
}
func (s *stubRepo) UpdateProject(_ context.Context, p Project, _ string) (Project, error) {
	return p, nil
}
func (s *stubRepo) DeleteProject(context.Context, string) error { return nil }

func TestCreateProjectDefaultsStatus(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	p, err := svc.CreateProject(context.Background(), Project{Name: "  Quarterly review rollout "}, "admin-1")
	require.NoError(t, err)
	require.Equal(t, "Quarterly review rollout", p.Name)
	require.Equal(t, StatusPlanned, p.Status)
	require.NotEmpty(t, p.ID)
}

func TestCreateProjectRejectsUnknownStatus(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.CreateProject(context.Background(), Project{Name: "x", Status: "paused"}, "")
	require.Error(t, err)
}

func TestCreateProjectRejectsInvertedDates(t *testing.T) {
	svc := NewService(&stubRepo{})

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	_, err := svc.CreateProject(context.Background(), Project{Name: "x", StartDate: &start, EndDate: &end}, "")
	require.Error(t, err)
}

func TestUpdateProjectKeepsID(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	p, err := svc.UpdateProject(context.Background(), Project{ID: "p1", Name: "renamed", Status: StatusActive}, "admin-1")
	require.NoError(t, err)
	require.Equal(t, "p1", p.ID)
}
