package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/epes-hq/epes/internal/users"
	_ "github.com/epes-hq/epes/testing"
)

type stubRepo struct {
	users        []users.User
	lastPassword string
}

func (s *stubRepo) ListUsers(ctx context.Context) ([]users.User, error) { return s.users, nil }

func (s *stubRepo) GetUser(ctx context.Context, id string) (users.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (s *stubRepo) CreateUser(ctx context.Context, id string, in users.NewUser, passwordHash string) (users.User, error) {
	s.lastPassword = passwordHash
	u := users.User{ID: id, FirstName: in.FirstName, LastName: in.LastName, LoginID: in.LoginID, EmailWork: in.EmailWork, IsActive: in.IsActive}
	s.users = append(s.users, u)
	return u, nil
}

func (s *stubRepo) UpdateUser(ctx context.Context, id string, in users.UpdateUser) (users.User, error) {
	return users.User{}, users.ErrNotFound
}

func (s *stubRepo) DeleteUser(ctx context.Context, id string) error { return users.ErrNotFound }

func TestListUsersSearchFoldsCase(t *testing.T) {
	repo := &stubRepo{users: []users.User{
		{ID: "1", FirstName: "Бат", LastName: "Дорж", LoginID: "bat01", EmailWork: "bat@epes.local"},
		{ID: "2", FirstName: "Sarnai", LastName: "Erdene", LoginID: "sarnai", EmailWork: "sarnai@epes.local"},
	}}
	svc := users.NewService(repo)

	got, err := svc.ListUsers(context.Background(), "SARNAI")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got, err = svc.ListUsers(context.Background(), "бат")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got, err = svc.ListUsers(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := &stubRepo{}
	svc := users.NewService(repo)

	u, err := svc.CreateUser(context.Background(), users.NewUser{
		FirstName: "Bat",
		LastName:  "Dorj",
		LoginID:   "bat01",
		EmailWork: "bat@epes.local",
		Password:  "hunter22b",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	require.NotEmpty(t, repo.lastPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.lastPassword), []byte("hunter22b")))
}

func TestCreateUserRequiresLoginAndPassword(t *testing.T) {
	svc := users.NewService(&stubRepo{})

	_, err := svc.CreateUser(context.Background(), users.NewUser{Password: "x"})
	assert.Error(t, err)

	_, err = svc.CreateUser(context.Background(), users.NewUser{LoginID: "bat01"})
	assert.Error(t, err)
}
