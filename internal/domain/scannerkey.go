package domain

import (
	"context"
	"time"
)

// ScannerKey is an event-scoped bearer credential for door-scanning clients.
// Only the SHA-256 digest of the secret is stored; lookup is by digest.
type ScannerKey struct {
	ID        string     `json:"id"`
	KeyHash   string     `json:"-"`
	EventID   string     `json:"event_id"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the key has an expiry in the past.
func (k *ScannerKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && !k.ExpiresAt.After(now)
}

// ScannerKeyRepository defines storage operations for scanner keys.
type ScannerKeyRepository interface {
	GetByHash(ctx context.Context, keyHash string) (*ScannerKey, error)
}
