package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventticketing/internal/domain"
	"eventticketing/internal/token"
)

type issuanceService struct {
	tickets  domain.TicketRepository
	types    domain.TicketTypeRepository
	events   domain.EventRepository
	email    domain.EmailService
	barcode  domain.BarcodeGenerator
	logger   *slog.Logger
	baseURL  string
	now      func() time.Time
	newToken func() string
}

// NewIssuanceService creates an IssuanceService. baseURL is the public base
// used to build ticket links (e.g. https://tix.example).
func NewIssuanceService(
	tickets domain.TicketRepository,
	types domain.TicketTypeRepository,
	events domain.EventRepository,
	email domain.EmailService,
	barcode domain.BarcodeGenerator,
	logger *slog.Logger,
	baseURL string,
) domain.IssuanceService {
	return &issuanceService{
		tickets:  tickets,
		types:    types,
		events:   events,
		email:    email,
		barcode:  barcode,
		logger:   logger,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		now:      time.Now,
		newToken: token.New,
	}
}

// Issue creates a ticket bound to the type and recipient. The ticket exists
// once the insert commits; barcode generation and the delivery email are
// best-effort side effects whose failure is reported in the result, never
// rolled back into a creation failure.
func (s *issuanceService) Issue(ctx context.Context, ticketTypeID, email, name string, opts domain.IssueOptions) (*domain.IssueResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !plausibleEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}

	tt, err := s.types.GetByID(ctx, ticketTypeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown ticket type", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("get ticket type: %w", err)
	}

	t := domain.NewTicket(s.newToken(), tt.ID, email, strings.TrimSpace(name), s.now().UTC())
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	result := &domain.IssueResult{
		Ticket:    t,
		TicketURL: s.baseURL + "/t/" + t.ID,
	}
	result.Email = s.notify(ctx, t, tt, result.TicketURL, opts)
	return result, nil
}

// notify runs the post-insert side effects and reports them as data.
func (s *issuanceService) notify(ctx context.Context, t *domain.Ticket, tt *domain.TicketType, ticketURL string, opts domain.IssueOptions) domain.EmailOutcome {
	if opts.SkipEmail {
		return domain.EmailOutcome{Skipped: true}
	}

	var barcodeURL string
	if !opts.LinkOnly {
		url, err := s.barcode.Generate(ctx, t.ID)
		if err != nil {
			// Degrade to a link-only email rather than failing the send.
			s.logger.WarnContext(ctx, "barcode generation failed", "ticket_id", t.ID, "err", err)
		} else {
			barcodeURL = url
		}
	}

	ev, err := s.events.GetByID(ctx, tt.EventID)
	if err != nil {
		return domain.EmailOutcome{Error: fmt.Sprintf("get event: %v", err)}
	}

	data := &domain.TicketEmailData{
		Email:          t.Email,
		Name:           t.Name,
		EventName:      ev.Name,
		EventVenue:     ev.Venue,
		EventStartsAt:  ev.StartsAt,
		TicketTypeName: tt.Name,
		TicketURL:      ticketURL,
		BarcodeURL:     barcodeURL,
	}
	if err := s.email.SendTicket(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "ticket email failed", "ticket_id", t.ID, "email", t.Email, "err", err)
		return domain.EmailOutcome{Error: err.Error()}
	}
	return domain.EmailOutcome{OK: true}
}

// plausibleEmail is the cheap sanity check used before issuing: an @ with a
// dot somewhere in the domain part.
func plausibleEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	dom := s[at+1:]
	dot := strings.IndexByte(dom, '.')
	return dot > 0 && dot < len(dom)-1
}
