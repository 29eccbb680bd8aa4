package domain

import "context"

// TicketType is a purchasable category of entry for an event. Immutable
// after creation as far as this service is concerned.
// swagger:model TicketType
type TicketType struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Price   int    `json:"price"`
}

// TicketTypeRepository defines read operations for ticket types.
type TicketTypeRepository interface {
	GetByID(ctx context.Context, id string) (*TicketType, error)
	ListByEventID(ctx context.Context, eventID string) ([]*TicketType, error)
}
