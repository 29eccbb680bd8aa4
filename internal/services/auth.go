package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventticketing/internal/domain"
)

const adminTokenExpiry = 12 * time.Hour

type authService struct {
	admins domain.AdminRepository
	hasher domain.PasswordHasher
	issuer domain.TokenIssuer
}

// NewAuthService creates the admin AuthService.
func NewAuthService(admins domain.AdminRepository, hasher domain.PasswordHasher, issuer domain.TokenIssuer) domain.AuthService {
	return &authService{admins: admins, hasher: hasher, issuer: issuer}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", domain.ErrUnauthorized
	}
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("get admin: %w", err)
	}
	if err := s.hasher.Compare(admin.PasswordHash, admin.Salt, password); err != nil {
		return "", domain.ErrUnauthorized
	}
	token, err := s.issuer.Issue(admin.ID, admin.Email, adminTokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// EnsureAdmin makes sure an admin with the given credentials exists, creating
// or re-hashing as needed. Called at startup with the bootstrap credentials
// from config; without it a fresh database has no way to mint the first
// admin, because password hashes cannot be produced outside the hasher.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return fmt.Errorf("%w: admin email and password are required", domain.ErrInvalidInput)
	}

	existing, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		if s.hasher.Compare(existing.PasswordHash, existing.Salt, password) == nil {
			return nil
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get admin: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := &domain.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
	}
	if err := s.admins.Upsert(ctx, admin); err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	return nil
}
