package domain

import (
	"context"
	"time"
)

// Ticket is a single entry ticket. Its ID is the opaque token printed on the
// ticket; the same value is the database key and the scanned payload.
// swagger:model Ticket
type Ticket struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name,omitempty"`
	TicketTypeID string     `json:"ticket_type_id"`
	Used         bool       `json:"used"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
	UsedByKeyID  *string    `json:"used_by_key_id,omitempty"`
	IssuedAt     time.Time  `json:"issued_at"`
}

// NewTicket returns an unused Ticket bound to the given type and recipient.
func NewTicket(id, ticketTypeID, email, name string, issuedAt time.Time) *Ticket {
	return &Ticket{
		ID:           id,
		Email:        email,
		Name:         name,
		TicketTypeID: ticketTypeID,
		IssuedAt:     issuedAt,
	}
}

// RedeemStatus is the outcome of a redemption attempt.
type RedeemStatus string

const (
	RedeemValid       RedeemStatus = "VALID"
	RedeemAlreadyUsed RedeemStatus = "ALREADY_USED"
	RedeemNotFound    RedeemStatus = "NOT_FOUND"
)

// RedeemOutcome bundles the status with the ticket, when one exists in the
// key's event scope. Ticket is nil for NOT_FOUND.
// swagger:model RedeemOutcome
type RedeemOutcome struct {
	Status RedeemStatus `json:"status"`
	Ticket *Ticket      `json:"ticket,omitempty"`
}

// TicketRepository defines storage operations for tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	// Redeem performs the single conditional transition unused->used for the
	// token, stamping used_at and used_by_key_id, but only while the ticket's
	// type belongs to eventID. Returns the updated ticket when this call won
	// the transition, ErrNotFound when the conditional update matched no row.
	Redeem(ctx context.Context, token, keyID, eventID string) (*Ticket, error)
	// GetByTokenForEvent reads the ticket scoped to the event. Returns
	// ErrNotFound when there is no row or the row belongs to another event.
	GetByTokenForEvent(ctx context.Context, token, eventID string) (*Ticket, error)
	// Burn marks the given tokens used, keeping any prior used_at stamp.
	// Returns the number of distinct existing tokens affected.
	Burn(ctx context.Context, tokens []string) (int64, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]*Ticket, error)
}

// RedemptionService is the exactly-once transition of a ticket from unused
// to used, plus key-scoped authorization of who may perform it.
type RedemptionService interface {
	// Authorize digests the presented scanner secret and returns the matching
	// key. Any failure (unknown, inactive, expired) is ErrForbidden; callers
	// cannot distinguish the cases.
	Authorize(ctx context.Context, secret string) (*ScannerKey, error)
	Redeem(ctx context.Context, token string, key *ScannerKey) (*RedeemOutcome, error)
	// Burn force-invalidates tickets without going through redemption.
	// Malformed tokens are dropped; duplicates count once.
	Burn(ctx context.Context, tokens []string) (int64, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]*Ticket, error)
}

// IssueOptions controls the side effects of issuing a ticket.
type IssueOptions struct {
	// LinkOnly skips barcode generation; the email carries only the link.
	LinkOnly bool
	// SkipEmail issues the ticket without sending anything.
	SkipEmail bool
}

// IssueResult reports a created ticket together with the outcome of the
// best-effort notification. A non-OK Email never implies the ticket failed.
// swagger:model IssueResult
type IssueResult struct {
	Ticket    *Ticket      `json:"ticket"`
	TicketURL string       `json:"ticket_url"`
	Email     EmailOutcome `json:"email"`
}

// IssuanceService creates tickets. Duplicate emails are not checked here;
// deduplication is the bulk pipeline's concern, cleanup is Burn's.
type IssuanceService interface {
	Issue(ctx context.Context, ticketTypeID, email, name string, opts IssueOptions) (*IssueResult, error)
}
