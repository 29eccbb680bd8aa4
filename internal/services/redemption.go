package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventticketing/internal/domain"
	"eventticketing/internal/token"
)

type redemptionService struct {
	tickets domain.TicketRepository
	keys    domain.ScannerKeyRepository
	now     func() time.Time
}

// NewRedemptionService creates a RedemptionService over the given repositories.
func NewRedemptionService(tickets domain.TicketRepository, keys domain.ScannerKeyRepository) domain.RedemptionService {
	return &redemptionService{
		tickets: tickets,
		keys:    keys,
		now:     time.Now,
	}
}

// Authorize looks up the scanner key by the SHA-256 digest of the presented
// secret. Every failure mode returns bare ErrForbidden so responses cannot be
// used to enumerate keys.
func (s *redemptionService) Authorize(ctx context.Context, secret string) (*domain.ScannerKey, error) {
	if secret == "" {
		return nil, domain.ErrForbidden
	}
	sum := sha256.Sum256([]byte(secret))
	key, err := s.keys.GetByHash(ctx, hex.EncodeToString(sum[:]))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get scanner key: %w", err)
	}
	if !key.Active || key.Expired(s.now()) {
		return nil, domain.ErrForbidden
	}
	return key, nil
}

// Redeem attempts the unused->used transition. The decisive step is a single
// conditional update in the repository; the store's row-level atomicity is
// what guarantees exactly one winner under concurrent scans, so no lock is
// taken here and none is needed even across server processes.
func (s *redemptionService) Redeem(ctx context.Context, raw string, key *domain.ScannerKey) (*domain.RedeemOutcome, error) {
	tok, ok := token.Extract(raw)
	if !ok {
		// Not a ticket at all; skip the store round-trip.
		return &domain.RedeemOutcome{Status: domain.RedeemNotFound}, nil
	}

	t, err := s.tickets.Redeem(ctx, tok, key.ID, key.EventID)
	if err == nil {
		return &domain.RedeemOutcome{Status: domain.RedeemValid, Ticket: t}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("redeem ticket: %w", err)
	}

	// The conditional update matched nothing. Re-read scoped to the same
	// event to tell "no such ticket here" from "already used". This read is
	// response enrichment only and never mutates state.
	t, err = s.tickets.GetByTokenForEvent(ctx, tok, key.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.RedeemOutcome{Status: domain.RedeemNotFound}, nil
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &domain.RedeemOutcome{Status: domain.RedeemAlreadyUsed, Ticket: t}, nil
}

// Burn force-marks tickets used to invalidate accidental duplicate
// issuances. Malformed tokens are silently dropped, duplicates collapsed;
// burning an already-used ticket is a counted no-op.
func (s *redemptionService) Burn(ctx context.Context, tokens []string) (int64, error) {
	seen := make(map[string]struct{}, len(tokens))
	valid := make([]string, 0, len(tokens))
	for _, raw := range tokens {
		tok := strings.TrimSpace(raw)
		if !token.IsValid(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		valid = append(valid, tok)
	}
	if len(valid) == 0 {
		return 0, nil
	}
	count, err := s.tickets.Burn(ctx, valid)
	if err != nil {
		return 0, fmt.Errorf("burn tickets: %w", err)
	}
	return count, nil
}

func (s *redemptionService) ListByEmail(ctx context.Context, email string, limit int) ([]*domain.Ticket, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	tickets, err := s.tickets.ListByEmail(ctx, email, limit)
	if err != nil {
		return nil, fmt.Errorf("list tickets by email: %w", err)
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	return tickets, nil
}
