package postgres

import (
	"context"
	"database/sql"

	"eventticketing/internal/domain"
)

type adminRepository struct {
	DB *sql.DB
}

// NewAdminRepository returns a domain.AdminRepository implemented with Postgres.
func NewAdminRepository(db *sql.DB) domain.AdminRepository {
	return &adminRepository{DB: db}
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT id, email, password_hash, salt, created_at
		FROM admins
		WHERE email = $1
	`
	a := &domain.Admin{}
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Salt, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *adminRepository) Upsert(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (id, email, password_hash, salt, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, salt = EXCLUDED.salt
	`
	_, err := r.DB.ExecContext(ctx, query, admin.ID, admin.Email, admin.PasswordHash, admin.Salt)
	return err
}
