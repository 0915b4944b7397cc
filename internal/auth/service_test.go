package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/epes-hq/epes/internal/auth"
	"github.com/epes-hq/epes/internal/shared"
	_ "github.com/epes-hq/epes/testing"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByLoginID(ctx context.Context, loginID string) (*auth.User, error) {
	if s.user == nil || s.user.LoginID != loginID {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func newService(t *testing.T, repo auth.Repository) *auth.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := auth.NewSessionStore(redisClient)
	return auth.NewService(repo, sessions, "secret", time.Hour)
}

func activeUser(t *testing.T) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           "u1",
		LoginID:      "bat",
		FirstName:    "Bat",
		EmailWork:    "bat@epes.local",
		PasswordHash: string(hashed),
		IsActive:     true,
		Roles:        []string{"admin"},
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newService(t, &stubRepo{user: activeUser(t)})

	result, err := svc.Login(context.Background(), "bat", "correctpass")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, []string{"admin"}, result.Roles)

	principal, err := svc.Verify(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.UserID)
	assert.Equal(t, "bat", principal.LoginID)
	assert.Equal(t, []string{"admin"}, principal.Roles)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newService(t, &stubRepo{user: activeUser(t)})

	_, err := svc.Login(context.Background(), "bat", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	user := activeUser(t)
	user.IsActive = false
	svc := newService(t, &stubRepo{user: user})

	_, err := svc.Login(context.Background(), "bat", "correctpass")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newService(t, &stubRepo{user: activeUser(t)})

	result, err := svc.Login(context.Background(), "bat", "correctpass")
	require.NoError(t, err)

	principal, err := svc.Verify(context.Background(), result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), principal.SessionID))

	_, err = svc.Verify(context.Background(), result.Token)
	assert.ErrorIs(t, err, shared.ErrSessionRevoked)
}

func TestVerifyGarbageToken(t *testing.T) {
	svc := newService(t, &stubRepo{})

	_, err := svc.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, shared.ErrTokenInvalid)

	_, err = svc.Verify(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrTokenMissing)
}
