package postgres

import (
	"context"
	"database/sql"

	"eventticketing/internal/domain"
)

type scannerKeyRepository struct {
	DB *sql.DB
}

// NewScannerKeyRepository returns a domain.ScannerKeyRepository implemented with Postgres.
func NewScannerKeyRepository(db *sql.DB) domain.ScannerKeyRepository {
	return &scannerKeyRepository{DB: db}
}

func (r *scannerKeyRepository) GetByHash(ctx context.Context, keyHash string) (*domain.ScannerKey, error) {
	query := `
		SELECT id, key_hash, event_id, active, expires_at
		FROM scanner_keys
		WHERE key_hash = $1
	`
	var (
		k         domain.ScannerKey
		expiresAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, keyHash).Scan(&k.ID, &k.KeyHash, &k.EventID, &k.Active, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if expiresAt.Valid {
		at := expiresAt.Time
		k.ExpiresAt = &at
	}
	return &k, nil
}
