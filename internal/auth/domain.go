package auth

import "time"

// User carries the credential fields needed for login.
type User struct {
	ID           string
	LoginID      string
	FirstName    string
	LastName     string
	EmailWork    string
	PasswordHash string
	IsActive     bool
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID    string   `json:"user_id"`
	LoginID   string   `json:"login_id"`
	Email     string   `json:"email"`
	SessionID string   `json:"session_id"`
	Roles     []string `json:"roles"`
}

// LoginResult is returned to the console after a successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	LoginID   string    `json:"login_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expires_at"`
}
