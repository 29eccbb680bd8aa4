package domain

import (
	"context"
	"time"
)

// Admin is an operator account for the /admin endpoints.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues bearer tokens (e.g. JWT) for an authenticated admin.
type TokenIssuer interface {
	Issue(adminID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns the admin ID.
type TokenVerifier interface {
	Verify(token string) (adminID string, err error)
}

// AdminRepository defines storage operations for admin accounts.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	// Upsert inserts the admin or, when the email already exists, replaces
	// its credentials while keeping the original row ID.
	Upsert(ctx context.Context, admin *Admin) error
}

// AuthService authenticates admins and hands out session tokens.
type AuthService interface {
	// Login returns a bearer token. Unknown email and wrong password fail
	// identically with ErrUnauthorized.
	Login(ctx context.Context, email, password string) (token string, err error)
	// EnsureAdmin seeds or rotates the bootstrap admin account so a fresh
	// deployment can log in. No-op when the stored password already matches.
	EnsureAdmin(ctx context.Context, email, password string) error
}
