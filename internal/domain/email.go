package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// TicketEmailData holds data for the ticket delivery email.
type TicketEmailData struct {
	Email          string
	Name           string
	EventName      string
	EventVenue     string
	EventStartsAt  time.Time
	TicketTypeName string
	TicketURL      string
	BarcodeURL     string // empty when the ticket was issued link-only
}

// EmailOutcome reports the notification side effect of issuing a ticket.
// It is data, not an error: a failed send never undoes the ticket.
// swagger:model EmailOutcome
type EmailOutcome struct {
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendTicket(ctx context.Context, data *TicketEmailData) error
}

// BarcodeGenerator produces a scannable artifact for a token and returns a
// URL where it can be fetched. Image generation itself is an external
// collaborator; implementations may simply point at a rendering service.
type BarcodeGenerator interface {
	Generate(ctx context.Context, token string) (url string, err error)
}
