package history

import (
	"context"
	"time"

	"github.com/epes-hq/epes/internal/shared"
)

// RepositoryPort defines data access methods for the history feed.
type RepositoryPort interface {
	List(ctx context.Context, f Filter) ([]Entry, int, error)
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// Page is one paginated slice of the history feed.
type Page struct {
	Entries    []Entry           `json:"entries"`
	Pagination shared.Pagination `json:"pagination"`
}

// Service handles the read side of action history.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns one page of history entries.
func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	entries, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Entries:    entries,
		Pagination: shared.NewPagination(f.Page, f.PerPage, total),
	}, nil
}

// Prune removes entries older than the retention window.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.Prune(ctx, time.Now().Add(-retention))
}
