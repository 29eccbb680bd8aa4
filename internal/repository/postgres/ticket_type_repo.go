package postgres

import (
	"context"
	"database/sql"

	"eventticketing/internal/domain"
)

type ticketTypeRepository struct {
	DB *sql.DB
}

// NewTicketTypeRepository returns a domain.TicketTypeRepository implemented with Postgres.
func NewTicketTypeRepository(db *sql.DB) domain.TicketTypeRepository {
	return &ticketTypeRepository{DB: db}
}

func (r *ticketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	query := `
		SELECT id, event_id, name, price
		FROM ticket_types
		WHERE id = $1
	`
	t := &domain.TicketType{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.EventID, &t.Name, &t.Price)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketTypeRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	query := `
		SELECT id, event_id, name, price
		FROM ticket_types
		WHERE event_id = $1
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*domain.TicketType
	for rows.Next() {
		t := &domain.TicketType{}
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.Price); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
