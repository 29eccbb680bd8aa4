// Package pipeline drives bulk ticket issuance from a tabular source: an
// unreliable, possibly-duplicated recipient list becomes a resumable,
// retried, idempotent sequence of calls against the issuance endpoint.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventticketing/internal/ledger"
	"eventticketing/internal/services"
)

// Ledger is the pipeline's view of the campaign ledger.
type Ledger interface {
	Append(rec ledger.Record) error
	SentIndex() (map[string]struct{}, error)
}

// Config assembles a Pipeline. Resolver, Ledger, Issuer, Source, and Logger
// are required.
type Config struct {
	Source   Source
	Resolver *services.TypeResolver
	Ledger   Ledger
	Issuer   Issuer
	Logger   *slog.Logger

	// Delay between consecutive sends, a courtesy toward the downstream
	// mail transport.
	Delay time.Duration
	// MaxAttempts bounds retries per recipient; minimum 1.
	MaxAttempts int
	// InitialBackoff seeds the exponential backoff between attempts.
	InitialBackoff time.Duration
	// RequirePaid skips rows whose payment cell is not affirmative.
	RequirePaid bool
	// Skip lists recipient emails to leave out.
	Skip []string
	// Only, when set, restricts the run to a single recipient email.
	Only string
	// LinkOnly and SkipEmail are passed through to the issue endpoint.
	LinkOnly  bool
	SkipEmail bool
}

// PlanItem is one recipient the pipeline intends to send to.
type PlanItem struct {
	Row          Row
	TicketTypeID string
}

// SkippedRow records why a source row was excluded from the plan.
type SkippedRow struct {
	Line   int
	Email  string
	Reason string
}

// Plan is the outcome of the filtering stages, before any network call.
type Plan struct {
	Send        []PlanItem
	Skipped     []SkippedRow
	AlreadySent int
}

// Summary reports a completed run.
type Summary struct {
	Sent        int
	Failed      int
	Skipped     int
	AlreadySent int
}

// Pipeline is strictly sequential by design: one recipient at a time, one
// synchronous ledger append per recipient. Parallelism would complicate the
// exactly-once ledger semantics for no useful throughput at campaign sizes.
type Pipeline struct {
	cfg   Config
	sleep func(time.Duration)
}

// New validates the config and returns a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Source == nil || cfg.Resolver == nil || cfg.Ledger == nil || cfg.Issuer == nil {
		return nil, fmt.Errorf("pipeline config missing a required component")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	return &Pipeline{cfg: cfg, sleep: time.Sleep}, nil
}

// affirmative answers for the payment-confirmation cell, compared after
// diacritic folding so "Já" passes.
var affirmative = map[string]struct{}{
	"ja": {}, "yes": {}, "y": {}, "x": {}, "true": {}, "1": {},
	"greitt": {}, "paid": {},
}

// Plan runs the filtering stages in order: email validation, payment filter,
// type resolution, skip/only filters, first-wins dedup, ledger filter. It
// makes no network calls and writes nothing.
func (p *Pipeline) Plan(ctx context.Context) (*Plan, error) {
	rows, err := p.cfg.Source.Rows()
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	sent, err := p.cfg.Ledger.SentIndex()
	if err != nil {
		return nil, fmt.Errorf("load ledger index: %w", err)
	}

	skipSet := make(map[string]struct{}, len(p.cfg.Skip))
	for _, s := range p.cfg.Skip {
		skipSet[normalizeEmail(s)] = struct{}{}
	}
	only := normalizeEmail(p.cfg.Only)

	plan := &Plan{}
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		email := normalizeEmail(row.Email)
		skip := func(reason string) {
			plan.Skipped = append(plan.Skipped, SkippedRow{Line: row.Line, Email: email, Reason: reason})
		}

		if !validEmail(email) {
			skip("invalid email")
			continue
		}
		if p.cfg.RequirePaid {
			if _, ok := affirmative[services.NormalizeTypeText(row.Paid)]; !ok {
				skip("payment not confirmed")
				continue
			}
		}
		typeID, ok := p.cfg.Resolver.Resolve(row.TypeText)
		if !ok {
			skip(fmt.Sprintf("unresolvable ticket type %q", row.TypeText))
			continue
		}
		if _, listed := skipSet[email]; listed {
			skip("on skip list")
			continue
		}
		if only != "" && email != only {
			skip("outside --only filter")
			continue
		}
		if _, dup := seen[email]; dup {
			// First occurrence in source order wins; later duplicates are
			// dropped before any network call.
			skip("duplicate of earlier row")
			continue
		}
		seen[email] = struct{}{}
		if _, done := sent[email]; done {
			plan.AlreadySent++
			skip("already sent per ledger")
			continue
		}

		row.Email = email
		plan.Send = append(plan.Send, PlanItem{Row: row, TicketTypeID: typeID})
	}
	return plan, nil
}

// Run executes the plan sequentially. Exactly one ledger record is appended
// per attempted recipient, synchronously, before the pipeline advances — a
// crash can never leave an unlogged success behind. A ledger append failure
// aborts the run for the same reason.
func (p *Pipeline) Run(ctx context.Context, plan *Plan) (*Summary, error) {
	summary := &Summary{
		Skipped:     len(plan.Skipped) - plan.AlreadySent,
		AlreadySent: plan.AlreadySent,
	}
	for i, item := range plan.Send {
		if i > 0 && p.cfg.Delay > 0 {
			p.sleep(p.cfg.Delay)
		}

		resp, err := p.issueWithRetry(ctx, item)
		rec := ledger.Record{Email: item.Row.Email, Timestamp: time.Now().UTC()}
		if err != nil {
			rec.Error = err.Error()
			summary.Failed++
			p.cfg.Logger.Error("issue failed", "email", item.Row.Email, "line", item.Row.Line, "err", err)
		} else {
			rec.OK = true
			rec.TicketID = resp.TicketID
			rec.TicketURL = resp.TicketURL
			summary.Sent++
			p.cfg.Logger.Info("ticket issued", "email", item.Row.Email, "ticket_id", resp.TicketID)
		}
		if err := p.cfg.Ledger.Append(rec); err != nil {
			return summary, fmt.Errorf("append ledger record for %s: %w", item.Row.Email, err)
		}
	}
	return summary, nil
}

// issueWithRetry retries transient failures with exponential backoff up to
// the attempt ceiling. An attempt always runs to completion before the
// policy is consulted; there is no mid-attempt cancellation.
func (p *Pipeline) issueWithRetry(ctx context.Context, item PlanItem) (*IssueResponse, error) {
	req := IssueRequest{
		TicketTypeID: item.TicketTypeID,
		Email:        item.Row.Email,
		Name:         item.Row.Name,
		LinkOnly:     p.cfg.LinkOnly,
		SkipEmail:    p.cfg.SkipEmail,
	}
	backoff := p.cfg.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		resp, err := p.cfg.Issuer.Issue(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !Transient(err) {
			return nil, err
		}
		if attempt < p.cfg.MaxAttempts {
			p.cfg.Logger.Warn("transient failure, backing off",
				"email", item.Row.Email, "attempt", attempt, "backoff", backoff, "err", err)
			p.sleep(backoff)
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("gave up after %d attempts: %w", p.cfg.MaxAttempts, lastErr)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// validEmail requires an @ and a dot in the domain part; anything less is a
// spreadsheet artifact, not an address.
func validEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	dom := s[at+1:]
	dot := strings.IndexByte(dom, '.')
	return dot > 0 && dot < len(dom)-1
}
