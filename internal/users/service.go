package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (User, error)
	CreateUser(ctx context.Context, id string, in NewUser, passwordHash string) (User, error)
	UpdateUser(ctx context.Context, id string, in UpdateUser) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// fold case-folds a string for Unicode-aware matching. A cases.Caser is
// stateful, so a fresh one is used per call.
func fold(s string) string { return cases.Fold().String(s) }

// ListUsers returns all users, optionally filtered by a case-folded substring
// match on name, login id, or work email.
func (s *Service) ListUsers(ctx context.Context, query string) ([]User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return users, nil
	}

	needle := fold(query)
	filtered := make([]User, 0, len(users))
	for _, u := range users {
		haystack := fold(u.FirstName + " " + u.LastName + " " + u.LoginID + " " + u.EmailWork)
		if strings.Contains(haystack, needle) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// GetUser fetches a user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser validates input, hashes the password, and inserts the user.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (User, error) {
	in.LoginID = strings.TrimSpace(in.LoginID)
	if in.LoginID == "" {
		return User{}, errors.New("users: login id required")
	}
	if in.Password == "" {
		return User{}, errors.New("users: password required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.repo.CreateUser(ctx, uuid.NewString(), in, string(hashed))
}

// UpdateUser updates an existing user.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateUser) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, errors.New("users: id required")
	}
	return s.repo.UpdateUser(ctx, id, in)
}

// DeleteUser removes a user by ID.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}
