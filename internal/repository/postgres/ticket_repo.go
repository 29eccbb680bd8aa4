package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"eventticketing/internal/domain"
)

type ticketRepository struct {
	DB *sql.DB
}

// NewTicketRepository returns a domain.TicketRepository implemented with Postgres.
func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{DB: db}
}

const ticketColumns = `t.id, t.email, t.name, t.ticket_type_id, t.used, t.used_at, t.used_by_key_id, t.issued_at`

func (r *ticketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	query := `
		INSERT INTO tickets (id, email, name, ticket_type_id, used, issued_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`
	name := sql.NullString{String: t.Name, Valid: t.Name != ""}
	_, err := r.DB.ExecContext(ctx, query, t.ID, t.Email, name, t.TicketTypeID, t.IssuedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

// Redeem is the decisive compare-and-swap: one conditional UPDATE whose
// row-level atomicity guarantees exactly one winner under concurrent scans,
// including scans arriving at different server processes.
func (r *ticketRepository) Redeem(ctx context.Context, token, keyID, eventID string) (*domain.Ticket, error) {
	query := `
		UPDATE tickets t
		SET used = TRUE, used_at = NOW(), used_by_key_id = $2
		FROM ticket_types tt
		WHERE t.id = $1
		  AND tt.id = t.ticket_type_id
		  AND tt.event_id = $3
		  AND t.used = FALSE
		RETURNING ` + ticketColumns
	row := r.DB.QueryRowContext(ctx, query, token, keyID, eventID)
	t, err := scanTicket(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) GetByTokenForEvent(ctx context.Context, token, eventID string) (*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets t
		JOIN ticket_types tt ON tt.id = t.ticket_type_id
		WHERE t.id = $1 AND tt.event_id = $2
	`
	row := r.DB.QueryRowContext(ctx, query, token, eventID)
	t, err := scanTicket(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Burn marks the tokens used unconditionally. Already-used rows keep their
// used_at and used_by_key_id so the redeeming scanner's audit trail survives;
// they still count toward the result.
func (r *ticketRepository) Burn(ctx context.Context, tokens []string) (int64, error) {
	query := `
		UPDATE tickets
		SET used = TRUE, used_at = COALESCE(used_at, NOW())
		WHERE id = ANY($1)
	`
	res, err := r.DB.ExecContext(ctx, query, pq.Array(tokens))
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

func (r *ticketRepository) ListByEmail(ctx context.Context, email string, limit int) ([]*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets t
		WHERE t.email = $1
		ORDER BY t.issued_at DESC
		LIMIT $2
	`
	rows, err := r.DB.QueryContext(ctx, query, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		t        domain.Ticket
		name     sql.NullString
		usedAt   sql.NullTime
		usedByID sql.NullString
	)
	err := row.Scan(&t.ID, &t.Email, &name, &t.TicketTypeID, &t.Used, &usedAt, &usedByID, &t.IssuedAt)
	if err != nil {
		return nil, err
	}
	t.Name = name.String
	if usedAt.Valid {
		at := usedAt.Time
		t.UsedAt = &at
	}
	if usedByID.Valid {
		id := usedByID.String
		t.UsedByKeyID = &id
	}
	return &t, nil
}
