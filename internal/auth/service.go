package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/epes-hq/epes/internal/shared"
)

// SessionStore tracks live sessions in Redis so issued tokens can be revoked
// before they expire.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) key(id string) string { return "epes:session:" + id }

// Put registers a session for the user with the given lifetime.
func (s *SessionStore) Put(ctx context.Context, id, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(id), userID, ttl).Err()
}

// Live reports whether the session has not been revoked.
func (s *SessionStore) Live(ctx context.Context, id string) (bool, error) {
	err := s.client.Get(ctx, s.key(id)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Revoke deletes the session.
func (s *SessionStore) Revoke(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	sessions *SessionStore
	secret   []byte
	tokenTTL time.Duration
}

// NewService constructs a new Service.
func NewService(repo Repository, sessions *SessionStore, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{repo: repo, sessions: sessions, secret: []byte(secret), tokenTTL: tokenTTL}
}

type tokenClaims struct {
	Claims
	jwt.RegisteredClaims
}

// Login validates credentials and issues a signed bearer token. The session
// id embedded in the token is registered in Redis so Logout can revoke it.
func (s *Service) Login(ctx context.Context, loginID, password string) (*LoginResult, error) {
	user, err := s.repo.FindByLoginID(ctx, loginID)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := tokenClaims{
		Claims: Claims{
			UserID:    user.ID,
			LoginID:   user.LoginID,
			Email:     user.EmailWork,
			SessionID: sessionID,
			Roles:     user.Roles,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}

	if err := s.sessions.Put(ctx, sessionID, user.ID, s.tokenTTL); err != nil {
		return nil, fmt.Errorf("auth: register session: %w", err)
	}

	return &LoginResult{
		Token:     token,
		UserID:    user.ID,
		LoginID:   user.LoginID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify parses and validates a bearer token, checks the embedded session is
// still live, and returns the principal it represents.
func (s *Service) Verify(ctx context.Context, tokenString string) (*shared.Principal, error) {
	if tokenString == "" {
		return nil, shared.ErrTokenMissing
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, shared.ErrTokenInvalid
	}

	live, err := s.sessions.Live(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, shared.ErrSessionRevoked
	}

	return &shared.Principal{
		UserID:    claims.UserID,
		LoginID:   claims.LoginID,
		Email:     claims.Email,
		SessionID: claims.SessionID,
		Roles:     claims.Roles,
	}, nil
}

// Logout revokes the principal's session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, sessionID)
}
