package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventticketing/internal/domain"
	"eventticketing/internal/token"
)

// fakeTicketRepo implements domain.TicketRepository in memory. Redeem and
// Burn are serialized with a mutex so the repo behaves like the store's
// row-level atomicity under concurrent calls.
type fakeTicketRepo struct {
	mu         sync.Mutex
	byID       map[string]*domain.Ticket
	typeEvents map[string]string // ticket_type_id -> event_id
	err        error
	calls      int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		byID:       make(map[string]*domain.Ticket),
		typeEvents: make(map[string]string),
	}
}

func (f *fakeTicketRepo) add(t *domain.Ticket, eventID string) {
	f.byID[t.ID] = t
	f.typeEvents[t.TicketTypeID] = eventID
}

func (f *fakeTicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTicketRepo) Redeem(ctx context.Context, token, keyID, eventID string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.byID[token]
	if !ok || t.Used || f.typeEvents[t.TicketTypeID] != eventID {
		return nil, domain.ErrNotFound
	}
	now := time.Now().UTC()
	key := keyID
	t.Used = true
	t.UsedAt = &now
	t.UsedByKeyID = &key
	cp := *t
	return &cp, nil
}

func (f *fakeTicketRepo) GetByTokenForEvent(ctx context.Context, token, eventID string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[token]
	if !ok || f.typeEvents[t.TicketTypeID] != eventID {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTicketRepo) Burn(ctx context.Context, tokens []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, tok := range tokens {
		t, ok := f.byID[tok]
		if !ok {
			continue
		}
		if !t.Used {
			now := time.Now().UTC()
			t.Used = true
			t.UsedAt = &now
		}
		n++
	}
	return n, nil
}

func (f *fakeTicketRepo) ListByEmail(ctx context.Context, email string, limit int) ([]*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Ticket
	for _, t := range f.byID {
		if t.Email == email && len(out) < limit {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeKeyRepo implements domain.ScannerKeyRepository keyed by digest.
type fakeKeyRepo struct {
	byHash map[string]*domain.ScannerKey
}

func (f *fakeKeyRepo) GetByHash(ctx context.Context, keyHash string) (*domain.ScannerKey, error) {
	if k, ok := f.byHash[keyHash]; ok {
		cp := *k
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func digest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func TestRedemptionService_Authorize(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	keys := &fakeKeyRepo{byHash: map[string]*domain.ScannerKey{
		digest("good-secret"):     {ID: "key-1", EventID: "event-1", Active: true},
		digest("expired-secret"):  {ID: "key-2", EventID: "event-1", Active: true, ExpiresAt: &past},
		digest("inactive-secret"): {ID: "key-3", EventID: "event-1", Active: false},
		digest("expiring-later"):  {ID: "key-4", EventID: "event-1", Active: true, ExpiresAt: &future},
	}}
	svc := NewRedemptionService(newFakeTicketRepo(), keys)

	tests := []struct {
		name    string
		secret  string
		wantKey string
		wantErr error
	}{
		{"active key", "good-secret", "key-1", nil},
		{"active key with future expiry", "expiring-later", "key-4", nil},
		{"unknown secret", "nope", "", domain.ErrForbidden},
		{"expired key", "expired-secret", "", domain.ErrForbidden},
		{"inactive key", "inactive-secret", "", domain.ErrForbidden},
		{"empty secret", "", "", domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := svc.Authorize(ctx, tt.secret)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key.ID)
		})
	}
}

func TestRedemptionService_Redeem(t *testing.T) {
	ctx := context.Background()
	key := &domain.ScannerKey{ID: "key-1", EventID: "event-1", Active: true}

	setup := func() (*fakeTicketRepo, domain.RedemptionService, string) {
		repo := newFakeTicketRepo()
		tok := token.New()
		repo.add(domain.NewTicket(tok, "type-1", "a@b.is", "Anna", time.Now()), "event-1")
		return repo, NewRedemptionService(repo, &fakeKeyRepo{}), tok
	}

	t.Run("first scan wins", func(t *testing.T) {
		_, svc, tok := setup()
		out, err := svc.Redeem(ctx, tok, key)
		require.NoError(t, err)
		assert.Equal(t, domain.RedeemValid, out.Status)
		require.NotNil(t, out.Ticket)
		assert.True(t, out.Ticket.Used)
		require.NotNil(t, out.Ticket.UsedAt)
		require.NotNil(t, out.Ticket.UsedByKeyID)
		assert.Equal(t, "key-1", *out.Ticket.UsedByKeyID)
	})

	t.Run("second scan reports already used", func(t *testing.T) {
		_, svc, tok := setup()
		_, err := svc.Redeem(ctx, tok, key)
		require.NoError(t, err)
		out, err := svc.Redeem(ctx, tok, key)
		require.NoError(t, err)
		assert.Equal(t, domain.RedeemAlreadyUsed, out.Status)
		require.NotNil(t, out.Ticket)
		assert.Equal(t, "key-1", *out.Ticket.UsedByKeyID)
	})

	t.Run("noisy scanner payload still redeems", func(t *testing.T) {
		_, svc, tok := setup()
		out, err := svc.Redeem(ctx, "https://tix.example/t/"+tok+"​ ", key)
		require.NoError(t, err)
		assert.Equal(t, domain.RedeemValid, out.Status)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, svc, _ := setup()
		out, err := svc.Redeem(ctx, token.New(), key)
		require.NoError(t, err)
		assert.Equal(t, domain.RedeemNotFound, out.Status)
		assert.Nil(t, out.Ticket)
	})

	t.Run("token scoped to another event", func(t *testing.T) {
		_, svc, tok := setup()
		otherKey := &domain.ScannerKey{ID: "key-9", EventID: "event-2", Active: true}
		out, err := svc.Redeem(ctx, tok, otherKey)
		require.NoError(t, err)
		assert.Equal(t, domain.RedeemNotFound, out.Status)

		// Scope isolation: the foreign scan must not have consumed the ticket.
		out, err = svc.Redeem(ctx, tok, key)
		require.NoError(t, err)
		assert.Equal(t, domain.RedeemValid, out.Status)
	})

	t.Run("malformed input skips the store", func(t *testing.T) {
		repo, svc, _ := setup()
		out, err := svc.Redeem(ctx, "not a ticket", key)
		require.NoError(t, err)
		assert.Equal(t, domain.RedeemNotFound, out.Status)
		assert.Zero(t, repo.calls)
	})
}

func TestRedemptionService_Redeem_ConcurrentScansSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTicketRepo()
	tok := token.New()
	repo.add(domain.NewTicket(tok, "type-1", "a@b.is", "", time.Now()), "event-1")
	svc := NewRedemptionService(repo, &fakeKeyRepo{})
	key := &domain.ScannerKey{ID: "key-1", EventID: "event-1", Active: true}

	const scanners = 16
	results := make(chan domain.RedeemStatus, scanners)
	var wg sync.WaitGroup
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.Redeem(ctx, tok, key)
			if err != nil {
				t.Error(err)
				return
			}
			results <- out.Status
		}()
	}
	wg.Wait()
	close(results)

	var valid, alreadyUsed int
	for status := range results {
		switch status {
		case domain.RedeemValid:
			valid++
		case domain.RedeemAlreadyUsed:
			alreadyUsed++
		default:
			t.Fatalf("unexpected status %q", status)
		}
	}
	assert.Equal(t, 1, valid, "exactly one scan must win")
	assert.Equal(t, scanners-1, alreadyUsed)
}

func TestRedemptionService_Burn(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTicketRepo()
	tok1 := token.New()
	tok2 := token.New()
	repo.add(domain.NewTicket(tok1, "type-1", "a@b.is", "", time.Now()), "event-1")
	repo.add(domain.NewTicket(tok2, "type-1", "a@b.is", "", time.Now()), "event-1")
	svc := NewRedemptionService(repo, &fakeKeyRepo{})

	// Duplicates and malformed entries collapse before the store call.
	count, err := svc.Burn(ctx, []string{tok1, tok1, "garbage", tok2, ""})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.True(t, repo.byID[tok1].Used)
	firstUsedAt := *repo.byID[tok1].UsedAt

	// Burning again is an idempotent no-op that still counts the tokens and
	// keeps the original stamp.
	count, err = svc.Burn(ctx, []string{tok1, tok2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, firstUsedAt, *repo.byID[tok1].UsedAt)
	assert.Nil(t, repo.byID[tok1].UsedByKeyID)

	// Nothing valid in the input set: zero without touching the store.
	count, err = svc.Burn(ctx, []string{"nope", "also-nope"})
	require.NoError(t, err)
	assert.Zero(t, count)
}
